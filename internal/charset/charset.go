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

// Package charset decodes multipart header values from the charset named
// at parser construction into UTF-8. It is a decode-only sibling of
// zostay-go-email's header/encoding package, built on the same
// golang.org/x/text/encoding/ianaindex index.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// utf8Names covers the common spellings browsers and callers use for the
// default charset; these skip the ianaindex lookup entirely since no
// transform is needed.
var utf8Names = map[string]bool{
	"":        true,
	"utf-8":   true,
	"utf8":    true,
	"us-ascii": true,
	"ascii":   true,
}

// Decode converts b, encoded in the named charset, to a UTF-8 string. An
// empty or "utf-8" charset validates b as UTF-8 without transcoding.
func Decode(name string, b []byte) (string, error) {
	lname := strings.ToLower(strings.TrimSpace(name))
	if utf8Names[lname] {
		if !utf8.Valid(b) {
			return "", fmt.Errorf("charset: invalid utf-8 header value")
		}
		return string(b), nil
	}

	enc, err := ianaindex.MIME.Encoding(name)
	if err != nil {
		return "", fmt.Errorf("charset: unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return "", fmt.Errorf("charset: no decoder registered for %q", name)
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("charset: decode %q: %w", name, err)
	}
	return string(out), nil
}

// ensure charmap is linked in for ianaindex.MIME to resolve the classic
// 8-bit charsets (latin1, windows-1252, ...) in addition to UTF variants.
var _ = charmap.ISO8859_1
