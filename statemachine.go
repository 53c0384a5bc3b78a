// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package multipart

import (
	"bytes"

	"github.com/packetd/multipart/internal/splitio"
)

type stateKind int

const (
	statePreamble stateKind = iota
	stateDelimiterTail
	stateHeaders
	stateBody
	stateEpilogue
	stateFinished
	stateError
)

func (s stateKind) phase() Phase {
	switch s {
	case statePreamble:
		return PhasePreamble
	case stateDelimiterTail:
		return PhaseDelimiterTail
	case stateHeaders:
		return PhaseHeaders
	case stateBody:
		return PhaseBody
	case stateEpilogue:
		return PhaseEpilogue
	default:
		return PhaseFinished
	}
}

// stateMachine is the deterministic automaton driving recognition of the
// multipart envelope. It owns a RingBuffer as its working window and
// advances through statePreamble -> stateDelimiterTail -> stateHeaders ->
// stateBody -> (stateDelimiterTail | stateEpilogue) -> stateFinished.
type stateMachine struct {
	rb      *RingBuffer
	cs      string
	firstDelim []byte // "--" + boundary
	delim      []byte // CRLF + "--" + boundary
	boundaryLen int

	state   stateKind
	seq     int
	curPart *Part
	err     error
	queue   []Event
}

func newStateMachine(boundary []byte, charset string) *stateMachine {
	m := &stateMachine{
		rb:         NewRingBuffer(),
		cs:         charset,
		firstDelim: append([]byte("--"), boundary...),
		state:      statePreamble,
	}
	m.delim = append([]byte("\r\n--"), boundary...)
	return m
}

func (m *stateMachine) feed(p []byte) {
	m.rb.Append(p)
}

// next advances the automaton until it can return exactly one Event, or
// NeedData when the buffered bytes are insufficient to decide anything
// further.
func (m *stateMachine) next() (Event, error) {
	if m.err != nil {
		return Event{}, m.err
	}
	if len(m.queue) > 0 {
		e := m.queue[0]
		m.queue = m.queue[1:]
		return e, nil
	}
	for {
		needData, err := m.step()
		if err != nil {
			m.err = err
			m.state = stateError
			return Event{}, err
		}
		if len(m.queue) > 0 {
			e := m.queue[0]
			m.queue = m.queue[1:]
			return e, nil
		}
		if needData {
			return Event{Kind: EventNeedData}, nil
		}
	}
}

// step runs one state transition. It reports needData=true when the
// current buffer cannot decide the next transition; progress (a
// transition, a consumed prefix, or a queued event) is otherwise always
// made so next's loop cannot spin without bound.
func (m *stateMachine) step() (needData bool, err error) {
	switch m.state {
	case statePreamble:
		return m.stepPreamble()
	case stateDelimiterTail:
		return m.stepDelimiterTail()
	case stateHeaders:
		return m.stepHeaders()
	case stateBody:
		return m.stepBody()
	case stateEpilogue:
		return m.stepEpilogue()
	case stateFinished:
		if m.rb.Len() > 0 {
			return false, newMalformedError(PhaseFinished, "input fed after Finished")
		}
		m.queue = append(m.queue, Event{Kind: EventFinished})
		return false, nil
	default:
		return false, m.err
	}
}

func (m *stateMachine) stepPreamble() (bool, error) {
	data := m.rb.Bytes()
	if idx := bytes.Index(data, m.firstDelim); idx >= 0 {
		m.rb.Consume(idx + len(m.firstDelim))
		m.state = stateDelimiterTail
		return false, nil
	}
	keep := len(m.firstDelim) - 1
	if len(data) > keep {
		m.rb.Consume(len(data) - keep)
	}
	return true, nil
}

func (m *stateMachine) stepDelimiterTail() (bool, error) {
	data := m.rb.Bytes()
	j := 0
	for j < len(data) && (data[j] == ' ' || data[j] == '\t') {
		j++
	}
	if j >= len(data) {
		return true, nil
	}
	switch data[j] {
	case '\r':
		if j+2 > len(data) {
			return true, nil
		}
		if data[j+1] != '\n' {
			return false, newMalformedError(PhaseDelimiterTail, "expected CRLF after boundary, got %q", data[j:j+2])
		}
		m.rb.Consume(j + 2)
		m.state = stateHeaders
		return false, nil
	case '-':
		if j+1 >= len(data) {
			return true, nil
		}
		if data[j+1] != '-' {
			return false, newMalformedError(PhaseDelimiterTail, "expected \"--\" terminator, got %q", data[j:j+2])
		}
		k := j + 2
		for k < len(data) && (data[k] == ' ' || data[k] == '\t') {
			k++
		}
		if k+2 > len(data) {
			return true, nil
		}
		if data[k] != '\r' || data[k+1] != '\n' {
			return false, newMalformedError(PhaseDelimiterTail, "expected CRLF after terminator, got %q", data[k:k+2])
		}
		// Only the "--" (and any tolerated leading whitespace) is
		// consumed here; the confirming CRLF is left for EPILOGUE to
		// discard, since its mere presence is what triggers FINISHED.
		m.rb.Consume(k)
		m.state = stateEpilogue
		return false, nil
	default:
		return false, newMalformedError(PhaseDelimiterTail, "unexpected byte %q after boundary", data[j])
	}
}

// scanHeaderBlock looks for the blank line ending a part's header block
// in data. It returns the header bytes (excluding the terminating blank
// line), the total bytes consumed including that blank line, and whether
// the block is complete. Folded continuation lines are resolved later by
// splitHeaderLines; this scan only needs line boundaries.
func scanHeaderBlock(data []byte) ([]byte, int, bool) {
	sc := splitio.NewScanner(data)
	pos := 0
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 || line[len(line)-1] != '\n' {
			return nil, 0, false
		}
		if len(trimEOL(line)) == 0 {
			return data[:pos], pos + len(line), true
		}
		pos += len(line)
	}
	return nil, 0, false
}

func (m *stateMachine) stepHeaders() (bool, error) {
	data := m.rb.Bytes()
	headerRaw, total, ok := scanHeaderBlock(data)
	if !ok {
		return true, nil
	}

	headers, err := parseHeaderBlock(headerRaw, m.cs)
	if err != nil {
		return false, err
	}

	cdValue, ok := headerGet(headers, "content-disposition")
	if !ok {
		return false, newMalformedError(PhaseHeaders, "missing Content-Disposition header")
	}
	dispType, params, err := contentDisposition(cdValue)
	if err != nil {
		return false, err
	}
	if dispType != "form-data" {
		return false, newMalformedError(PhaseHeaders, "unsupported content-disposition type %q", dispType)
	}
	name, ok := params["name"]
	if !ok || name == "" {
		return false, newMalformedError(PhaseHeaders, "missing required name parameter")
	}
	contentType, _ := headerGet(headers, "content-type")

	part := &Part{
		Seq:         m.seq,
		Name:        name,
		FileName:    params["filename"],
		ContentType: contentType,
		Headers:     headers,
		Charset:     m.cs,
	}
	m.curPart = part
	m.seq++
	m.rb.Consume(total)
	m.queue = append(m.queue, Event{Kind: EventPart, Part: part})
	m.state = stateBody
	return false, nil
}

func headerGet(headers []Header, name string) (string, bool) {
	for _, h := range headers {
		if asciiEqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

func (m *stateMachine) stepBody() (bool, error) {
	data := m.rb.Bytes()
	if idx := bytes.Index(data, m.delim); idx >= 0 {
		if idx > 0 {
			frag := append([]byte(nil), data[:idx]...)
			m.queue = append(m.queue, Event{Kind: EventPartData, PartData: &PartData{
				Seq: m.curPart.Seq, Data: frag, Final: true,
			}})
		}
		m.rb.Consume(idx + len(m.delim))
		m.state = stateDelimiterTail
		return false, nil
	}

	suspense := len(m.firstDelim) + 2 // len(boundary) + 4
	if safe := len(data) - suspense; safe > 0 {
		frag := append([]byte(nil), data[:safe]...)
		m.queue = append(m.queue, Event{Kind: EventPartData, PartData: &PartData{
			Seq: m.curPart.Seq, Data: frag, Final: false,
		}})
		m.rb.Consume(safe)
	}
	return true, nil
}

func (m *stateMachine) stepEpilogue() (bool, error) {
	if n := m.rb.Len(); n > 0 {
		m.rb.Consume(n)
		m.state = stateFinished
		m.queue = append(m.queue, Event{Kind: EventFinished})
		return false, nil
	}
	return true, nil
}

// finalize is invoked when the caller signals end-of-input (scoped
// session close). A terminator already recognized (state in
// {stateEpilogue, stateFinished}) counts as a clean finish even with no
// trailing bytes ever observed.
func (m *stateMachine) finalize() error {
	switch m.state {
	case stateEpilogue:
		m.state = stateFinished
		return nil
	case stateFinished:
		return nil
	default:
		return newUnexpectedExitError(m.state.phase())
	}
}
