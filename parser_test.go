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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain feeds each chunk in turn and collects every non-NeedData event,
// requesting another chunk whenever the automaton reports NeedData.
func drain(t *testing.T, p *Parser, chunks []string) []Event {
	t.Helper()
	var events []Event
	ci := 0
	for {
		e, err := p.Next()
		require.NoError(t, err)
		switch e.Kind {
		case EventNeedData:
			if ci >= len(chunks) {
				return events
			}
			p.Feed([]byte(chunks[ci]))
			ci++
		case EventFinished:
			events = append(events, e)
			return events
		default:
			events = append(events, e)
		}
	}
}

func bodyOf(events []Event, seq int) []byte {
	var buf bytes.Buffer
	for _, e := range events {
		if e.Kind == EventPartData && e.PartData.Seq == seq {
			buf.Write(e.PartData.Data)
		}
	}
	return buf.Bytes()
}

func partsOf(events []Event) []*Part {
	var parts []*Part
	for _, e := range events {
		if e.Kind == EventPart {
			parts = append(parts, e.Part)
		}
	}
	return parts
}

// Scenario 1: heavily fragmented single part.
func TestScenarioFragmentedSinglePart(t *testing.T) {
	boundary := "8banana133744910kmmr13a56!102!2405"
	chunks := []string{
		"--8banana133744910kmmr",
		"13a56!102!2405\r\nContent-Disposition: form-da",
		"ta; name=\"file_1\"; filename=\"test_file1.tx",
		"t\"\r\nContent-Type: application/octet-strea",
		"m\r\ncontent-length: 9\r\n\r\nCompoo",
		"per\r\n--8banana",
		"133744910kmmr13a5",
		"6!102!2405--\r\n",
	}

	p := NewParser([]byte(boundary), "")
	events := drain(t, p, chunks)

	parts := partsOf(events)
	require.Len(t, parts, 1)
	assert.Equal(t, "file_1", parts[0].Name)
	assert.Equal(t, "test_file1.txt", parts[0].FileName)
	assert.Equal(t, "application/octet-stream", parts[0].ContentType)

	assert.Equal(t, []byte("Compooper"), bodyOf(events, 0))
	assert.Equal(t, EventFinished, events[len(events)-1].Kind)
}

// Scenario 2: two parts, supplied as one whole chunk.
func TestScenarioTwoPartsWholeInput(t *testing.T) {
	boundary := "8banana133744910kmmr13a56!102!1823"
	input := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"file_1\"; filename=\"test_file1.txt\"\r\n" +
		"Content-Type: application/octet-stream\r\n\r\n" +
		"Compooper\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"data_1\"\r\n\r\n" +
		"watwatwatwat=yesyesyes\r\n" +
		"--" + boundary + "--\r\n\r\n"

	p := NewParser([]byte(boundary), "")
	events, err := p.Parse([]byte(input))
	require.NoError(t, err)
	require.Equal(t, EventFinished, events[len(events)-1].Kind)

	parts := partsOf(events)
	require.Len(t, parts, 2)
	assert.Equal(t, "file_1", parts[0].Name)
	assert.Equal(t, "test_file1.txt", parts[0].FileName)
	assert.Equal(t, "data_1", parts[1].Name)
	assert.Equal(t, "", parts[1].FileName)

	assert.Equal(t, []byte("Compooper"), bodyOf(events, 0))
	assert.Equal(t, []byte("watwatwatwat=yesyesyes"), bodyOf(events, 1))
}

// Scenario 3: empty body part.
func TestScenarioEmptyBody(t *testing.T) {
	boundary := "xyzBOUNDARY"
	input := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"x\"\r\n\r\n" +
		"\r\n--" + boundary + "--\r\n"

	sess := Open([]byte(boundary), "")
	events := drain(t, sess.Parser(), []string{input})

	parts := partsOf(events)
	require.Len(t, parts, 1)
	assert.Equal(t, "x", parts[0].Name)
	assert.Equal(t, 0, len(bodyOf(events, 0)))

	// The terminator and its trailing CRLF were observed and Finished was
	// emitted; closing now is a clean finish, not UnexpectedExit.
	assert.NoError(t, sess.Close())
}

// Scenario 4: missing name parameter.
func TestScenarioMissingName(t *testing.T) {
	boundary := "xyzBOUNDARY"
	input := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data\r\n\r\n" +
		"body\r\n--" + boundary + "--\r\n"

	p := NewParser([]byte(boundary), "")
	_, err := p.Parse([]byte(input))
	require.Error(t, err)
	assert.True(t, IsMalformed(err))

	// The parser stays unusable: the same error re-raises.
	_, err2 := p.Next()
	assert.Equal(t, err, err2)
}

// Scenario 5: early release of the scoped session.
func TestScenarioEarlyRelease(t *testing.T) {
	boundary := "8banana133744910kmmr13a56!102!2405"
	chunks := []string{
		"--8banana133744910kmmr",
		"13a56!102!2405\r\nContent-Disposition: form-da",
		"ta; name=\"file_1\"; filename=\"test_file1.tx",
		"t\"\r\nContent-Type: application/octet-strea",
	}

	sess := Open([]byte(boundary), "")
	p := sess.Parser()
	for _, c := range chunks {
		p.Feed([]byte(c))
		for {
			e, err := p.Next()
			require.NoError(t, err)
			if e.Kind == EventNeedData {
				break
			}
		}
	}

	err := sess.Close()
	require.Error(t, err)
	assert.True(t, IsUnexpectedExit(err))
}

// Scenario 6: body containing bytes that merely resemble the boundary.
func TestScenarioNearBoundaryBytes(t *testing.T) {
	boundary := "8banana133744910kmmr13a56!102!1823"
	body := "\r\n--8banana133744910kmmr13a56!102!9999X"
	input := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"x\"\r\n\r\n" +
		body + "\r\n--" + boundary + "--\r\n"

	p := NewParser([]byte(boundary), "")
	events := drain(t, p, []string{input})

	assert.Equal(t, []byte(body), bodyOf(events, 0))
}

// Delimiter split across every possible byte offset is recognized
// correctly regardless of where the input happens to be cut.
func TestBoundarySplitAtEveryOffset(t *testing.T) {
	boundary := "split-boundary-99"
	full := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"x\"\r\n\r\n" +
		"0123456789\r\n" +
		"--" + boundary + "--\r\n\r\n"

	for i := 0; i <= len(full); i++ {
		p := NewParser([]byte(boundary), "")
		events := drain(t, p, []string{full[:i], full[i:]})
		require.Equal(t, []byte("0123456789"), bodyOf(events, 0), "split at offset %d", i)
		require.Equal(t, EventFinished, events[len(events)-1].Kind, "split at offset %d", i)
	}
}

// Chunk-splitting invariance: any partition of a valid message into
// chunks yields the same parts and body bytes.
func TestChunkSplittingInvariance(t *testing.T) {
	boundary := "chunk-inv-boundary"
	full := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n\r\n" +
		"hello world, this is a moderately long body\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"b\"; filename=\"f.bin\"\r\n\r\n" +
		"more bytes here\r\n" +
		"--" + boundary + "--\r\n"

	splitSizes := []int{1, 2, 3, 7, 16}
	var reference []byte
	for _, sz := range splitSizes {
		var chunks []string
		for i := 0; i < len(full); i += sz {
			end := i + sz
			if end > len(full) {
				end = len(full)
			}
			chunks = append(chunks, full[i:end])
		}
		p := NewParser([]byte(boundary), "")
		events := drain(t, p, chunks)

		var got bytes.Buffer
		parts := partsOf(events)
		for _, part := range parts {
			got.WriteString(part.Name)
			got.WriteByte(0)
		}
		got.Write(bodyOf(events, 0))
		got.Write(bodyOf(events, 1))

		if reference == nil {
			reference = got.Bytes()
		} else {
			assert.Equal(t, reference, got.Bytes(), "chunk size %d", sz)
		}
	}
}

func TestParserParseDrainsToNeedData(t *testing.T) {
	boundary := "b"
	p := NewParser([]byte(boundary), "")
	events, err := p.Parse([]byte("--b"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventNeedData, events[0].Kind)
}

func TestWithSessionSuccess(t *testing.T) {
	boundary := "wsb"
	input := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n\r\n" +
		"hi\r\n--" + boundary + "--\r\n"

	err := WithSession([]byte(boundary), "", func(p *Parser) error {
		for {
			e, err := p.Next()
			if err != nil {
				return err
			}
			switch e.Kind {
			case EventNeedData:
				p.Feed([]byte(input))
			case EventFinished:
				return nil
			}
		}
	})
	require.NoError(t, err)
}

func TestWithSessionUnexpectedExit(t *testing.T) {
	err := WithSession([]byte("wsb2"), "", func(p *Parser) error {
		p.Feed([]byte("--wsb2\r\n"))
		_, err := p.Next()
		return err
	})
	require.Error(t, err)
	assert.True(t, IsUnexpectedExit(err))
}
