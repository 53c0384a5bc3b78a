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

// Package parthash fingerprints a parsed part so sinks can detect
// re-submitted uploads without retaining whole bodies in memory.
package parthash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/valyala/bytebufferpool"
)

var sep = []byte{'\xff'}

// Hasher accumulates a part's envelope and body fragments into a single
// fingerprint. Hashers are created with NewHasher, which seeds the
// digest; the zero value has no digest.
type Hasher struct {
	d *xxhash.Digest
}

// NewHasher seeds a Hasher with a part's name, filename and content
// type; body fragments are folded in afterward with Write.
func NewHasher(name, filename, contentType string) *Hasher {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(name)
	buf.Write(sep)
	buf.WriteString(filename)
	buf.Write(sep)
	buf.WriteString(contentType)
	buf.Write(sep)

	d := xxhash.New()
	d.Write(buf.Bytes())
	return &Hasher{d: d}
}

// Write folds another body fragment into the running fingerprint.
func (h *Hasher) Write(p []byte) {
	h.d.Write(p)
}

// Sum64 returns the fingerprint accumulated so far.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}
