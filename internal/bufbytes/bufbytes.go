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

// Package bufbytes implements a growable byte accumulator backing
// multipart.RingBuffer. Unlike its original packetd incarnation (which
// capped total size to bound captured payloads) this version imposes no
// upper bound: the caller deciding how much to retain is multipart's
// StateMachine, not this package.
package bufbytes

import "bytes"

// Bytes is an append-only byte accumulator with an amortized-constant
// Consume for discarding an already-processed prefix.
type Bytes struct {
	buf []byte
	off int // bytes [0, off) have been consumed
}

// New returns an empty Bytes accumulator.
func New() *Bytes {
	return &Bytes{}
}

// Write appends p to the accumulator. It never fails and never truncates.
func (b *Bytes) Write(p []byte) {
	b.buf = append(b.buf, p...)
}

// Len reports the number of unconsumed bytes.
func (b *Bytes) Len() int {
	return len(b.buf) - b.off
}

// Bytes returns the unconsumed suffix. The returned slice aliases the
// backing array: a later Consume that compacts the array overwrites it in
// place, so callers that need to retain it must copy.
func (b *Bytes) Bytes() []byte {
	return b.buf[b.off:]
}

// Find returns the index (relative to Bytes()) of the first occurrence of
// needle at or after start, or -1 if not present.
func (b *Bytes) Find(needle []byte, start int) int {
	if start < 0 {
		start = 0
	}
	view := b.Bytes()
	if start >= len(view) {
		return -1
	}
	idx := bytes.Index(view[start:], needle)
	if idx < 0 {
		return -1
	}
	return idx + start
}

// Consume discards the first n unconsumed bytes. It compacts the
// underlying array once the consumed prefix grows past half the buffer, so
// memory does not grow unboundedly across a long-running parse.
func (b *Bytes) Consume(n int) {
	if n <= 0 {
		return
	}
	if n > b.Len() {
		n = b.Len()
	}
	b.off += n

	if b.off > 0 && b.off >= len(b.buf)/2 {
		remaining := len(b.buf) - b.off
		copy(b.buf, b.buf[b.off:])
		b.buf = b.buf[:remaining]
		b.off = 0
	}
}

// Reset empties the accumulator, retaining its backing array for reuse.
func (b *Bytes) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// Clone returns a freshly allocated copy of the unconsumed suffix.
func (b *Bytes) Clone() []byte {
	view := b.Bytes()
	if view == nil {
		return nil
	}
	return append([]byte(nil), view...)
}
