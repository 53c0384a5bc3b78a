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

// Package multipart implements a sans-I/O streaming parser for
// multipart/form-data payloads (RFC 7578). The parser owns no sockets,
// files, or timers: callers push byte chunks in with Feed and pull
// Part/PartData/NeedData/Finished events back out with Next.
package multipart

import "github.com/packetd/multipart/internal/rescue"

const DefaultCharset = "utf-8"

// Parser is the EventStream façade over the StateMachine: it translates
// automaton progress into the external Feed/Next/Parse API. A Parser is
// not safe for concurrent use.
type Parser struct {
	m *stateMachine
}

// NewParser returns a Parser recognizing boundary. An empty charset
// defaults to utf-8; charset governs header-value decoding only, never
// body bytes.
func NewParser(boundary []byte, charset string) *Parser {
	if charset == "" {
		charset = DefaultCharset
	}
	return &Parser{m: newStateMachine(append([]byte(nil), boundary...), charset)}
}

// Feed appends bytes to the parser's working window. It never blocks and
// never fails; malformed input is only discovered on a later Next call.
func (p *Parser) Feed(b []byte) {
	p.m.feed(b)
}

// Next advances the automaton and returns exactly one event: a Part, a
// PartData, NeedData, or Finished. It never blocks. Once an error is
// returned, the Parser is unusable and every subsequent call re-raises
// the same error.
func (p *Parser) Next() (Event, error) {
	return p.m.next()
}

// Parse feeds b and drains events until NeedData or Finished, returning
// the collected events in order. It is a convenience defined purely in
// terms of Feed and Next.
func (p *Parser) Parse(b []byte) ([]Event, error) {
	p.Feed(b)
	var events []Event
	for {
		e, err := p.Next()
		if err != nil {
			return events, err
		}
		events = append(events, e)
		if e.Kind == EventNeedData || e.Kind == EventFinished {
			return events, nil
		}
	}
}

// done reports whether the automaton has recognized the terminator,
// i.e. whether closing now would be a clean finish rather than an
// UnexpectedExit.
func (p *Parser) done() bool {
	return p.m.state == stateFinished || p.m.state == stateEpilogue
}

// Session is a scoped acquisition of a Parser that guarantees the caller
// observes Finished (or an UnexpectedExit error) before release, on
// every exit path including a panic unwinding through Close.
type Session struct {
	parser *Parser
	closed bool
}

// Open begins a scoped session around a new Parser for boundary.
func Open(boundary []byte, charset string) *Session {
	return &Session{parser: NewParser(boundary, charset)}
}

// Parser returns the session's underlying Parser.
func (s *Session) Parser() *Parser {
	return s.parser
}

// Close ends the session. If the automaton has not observed Finished
// (including via a recognized terminator awaiting only end-of-input),
// Close returns an *UnexpectedExitError. Close is idempotent: subsequent
// calls return nil.
func (s *Session) Close() (err error) {
	defer rescue.HandleCrash()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.parser.m.finalize()
}

// WithSession opens a scoped session, invokes fn with its Parser, and
// closes the session on every return path, including a panic inside fn.
// It returns fn's error, or the session's own UnexpectedExit error if fn
// succeeded but the message was left incomplete.
func WithSession(boundary []byte, charset string, fn func(*Parser) error) (err error) {
	sess := Open(boundary, charset)
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(sess.Parser())
}
