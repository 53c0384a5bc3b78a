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
	"strings"

	"github.com/packetd/multipart/internal/charset"
	"github.com/packetd/multipart/internal/splitio"
)

// splitHeaderLines folds a raw header block (everything between the part's
// delimiter line and the blank line that ends it, CRLFs included) into
// logical header lines, joining RFC 5322 continuation lines (those
// starting with a space or tab) onto the line they continue.
func splitHeaderLines(raw []byte) []string {
	var lines []string
	sc := splitio.NewScanner(raw)
	for sc.Scan() {
		line := trimEOL(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] = lines[len(lines)-1] + " " + strings.TrimSpace(string(line))
			continue
		}
		lines = append(lines, string(line))
	}
	return lines
}

func trimEOL(b []byte) []byte {
	b = trimSuffixByte(b, '\n')
	b = trimSuffixByte(b, '\r')
	return b
}

func trimSuffixByte(b []byte, c byte) []byte {
	if len(b) > 0 && b[len(b)-1] == c {
		return b[:len(b)-1]
	}
	return b
}

// parseHeaderBlock decodes every logical line of raw as "name: value",
// decoding each value from cs into UTF-8. Lines with no colon are
// rejected as malformed.
func parseHeaderBlock(raw []byte, cs string) ([]Header, error) {
	lines := splitHeaderLines(raw)
	headers := make([]Header, 0, len(lines))
	for _, line := range lines {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, errHeaderLine(line)
		}
		name := strings.TrimSpace(line[:idx])
		rawValue := strings.TrimSpace(line[idx+1:])
		value, err := charset.Decode(cs, []byte(rawValue))
		if err != nil {
			return nil, newMalformedError(PhaseHeaders, "decode header value: %v", err)
		}
		headers = append(headers, Header{Name: name, Value: value})
	}
	return headers, nil
}

func errHeaderLine(line string) error {
	return newMalformedError(PhaseHeaders, "header line missing colon: %q", line)
}

// contentDisposition parses an RFC 2183 Content-Disposition header value
// of the form:
//
//	form-data; name="field"; filename="file.txt"
//
// into its disposition type and a case-insensitive parameter map. Quoted
// values allow backslash-escaping of '"' and '\' only, per RFC 2045's
// quoted-string grammar.
func contentDisposition(value string) (string, map[string]string, error) {
	p := &cdParser{s: value}
	disp, err := p.token()
	if err != nil {
		return "", nil, err
	}
	params := make(map[string]string)
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() != ';' {
			return "", nil, newMalformedError(PhaseHeaders, "content-disposition: expected ';' at %q", p.rest())
		}
		p.next()
		p.skipSpace()
		if p.eof() {
			break
		}
		key, err := p.token()
		if err != nil {
			return "", nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != '=' {
			return "", nil, newMalformedError(PhaseHeaders, "content-disposition: expected '=' after %q", key)
		}
		p.next()
		val, err := p.value()
		if err != nil {
			return "", nil, err
		}
		params[strings.ToLower(key)] = val
	}
	return strings.ToLower(disp), params, nil
}

type cdParser struct {
	s string
	i int
}

func (p *cdParser) eof() bool   { return p.i >= len(p.s) }
func (p *cdParser) peek() byte  { return p.s[p.i] }
func (p *cdParser) next() byte  { c := p.s[p.i]; p.i++; return c }
func (p *cdParser) rest() string { return p.s[p.i:] }

func (p *cdParser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.i++
	}
}

// token reads an RFC 2045 token: a run of bytes up to the next tspecial
// (';', '=', whitespace) or end of input.
func (p *cdParser) token() (string, error) {
	start := p.i
	for !p.eof() {
		c := p.peek()
		if c == ';' || c == '=' || c == ' ' || c == '\t' {
			break
		}
		p.i++
	}
	if p.i == start {
		return "", newMalformedError(PhaseHeaders, "content-disposition: empty token at %q", p.rest())
	}
	return p.s[start:p.i], nil
}

// value reads either a quoted-string or a bare token as a parameter value.
func (p *cdParser) value() (string, error) {
	if p.eof() {
		return "", newMalformedError(PhaseHeaders, "content-disposition: expected value")
	}
	if p.peek() != '"' {
		return p.token()
	}
	p.next() // opening quote
	var b strings.Builder
	for {
		if p.eof() {
			return "", newMalformedError(PhaseHeaders, "content-disposition: unterminated quoted string")
		}
		c := p.next()
		if c == '"' {
			return b.String(), nil
		}
		if c == '\\' {
			if p.eof() {
				return "", newMalformedError(PhaseHeaders, "content-disposition: trailing backslash in quoted string")
			}
			nc := p.peek()
			if nc == '"' || nc == '\\' {
				b.WriteByte(p.next())
				continue
			}
			// Only '"' and '\' are escapable; any other backslash is
			// literal, per RFC 2045's quoted-pair grammar as narrowed
			// by RFC 7578.
			b.WriteByte(c)
			continue
		}
		b.WriteByte(c)
	}
}
