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

import "github.com/packetd/multipart/internal/bufbytes"

// RingBuffer is the parser's append-only working window: callers push
// chunks in with Append, the StateMachine inspects them with Bytes/Find,
// and already-decided bytes are dropped with Consume. It imposes no size
// limit of its own; keeping the working window small is the StateMachine's
// job (see the suspense-window accounting in statemachine.go).
type RingBuffer struct {
	buf *bufbytes.Bytes
}

// NewRingBuffer returns an empty RingBuffer.
func NewRingBuffer() *RingBuffer {
	return &RingBuffer{buf: bufbytes.New()}
}

// Append extends the buffer with a caller-supplied chunk. It never copies
// p's own backing array beyond what append() itself requires.
func (r *RingBuffer) Append(p []byte) {
	r.buf.Write(p)
}

// Bytes returns the unconsumed suffix, in the exact order it was
// appended. The slice is invalidated by the next Append or Consume call
// that triggers compaction.
func (r *RingBuffer) Bytes() []byte {
	return r.buf.Bytes()
}

// Len reports the number of unconsumed bytes.
func (r *RingBuffer) Len() int {
	return r.buf.Len()
}

// Find returns the offset of the first occurrence of needle at or after
// start, or -1 if needle does not occur.
func (r *RingBuffer) Find(needle []byte, start int) int {
	return r.buf.Find(needle, start)
}

// Consume discards the first n unconsumed bytes. Bytes once consumed are
// never visible again.
func (r *RingBuffer) Consume(n int) {
	r.buf.Consume(n)
}
