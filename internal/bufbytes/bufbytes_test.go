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

package bufbytes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesWrite(t *testing.T) {
	tests := []struct {
		name     string
		inputs   [][]byte
		expected []byte
	}{
		{name: "empty write", inputs: [][]byte{}, expected: nil},
		{name: "single write", inputs: [][]byte{[]byte("hello")}, expected: []byte("hello")},
		{
			name:     "multiple writes concatenate",
			inputs:   [][]byte{[]byte("hello"), []byte("world")},
			expected: []byte("helloworld"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			for _, input := range tt.inputs {
				b.Write(input)
			}
			assert.Equal(t, tt.expected, b.Bytes())
			assert.Equal(t, len(tt.expected), b.Len())
		})
	}
}

func TestBytesFind(t *testing.T) {
	b := New()
	b.Write([]byte("--boundaryXY body --boundary--"))

	assert.Equal(t, 0, b.Find([]byte("--boundary"), 0))
	assert.Equal(t, 18, b.Find([]byte("--boundary"), 1))
	assert.Equal(t, -1, b.Find([]byte("--boundary"), 19))
	assert.Equal(t, -1, b.Find([]byte("nope"), 0))
}

func TestBytesConsume(t *testing.T) {
	b := New()
	b.Write([]byte("hello world"))

	b.Consume(6)
	assert.Equal(t, []byte("world"), b.Bytes())
	assert.Equal(t, 5, b.Len())

	b.Write([]byte("!"))
	assert.Equal(t, []byte("world!"), b.Bytes())

	b.Consume(100)
	assert.Equal(t, 0, b.Len())
}

func TestBytesClone(t *testing.T) {
	b := New()
	b.Write([]byte("hello"))
	clone := b.Clone()
	assert.Equal(t, []byte("hello"), clone)

	b.Write([]byte(" world"))
	assert.Equal(t, []byte("hello"), clone, "clone must not alias later writes")
}

func TestBytesReset(t *testing.T) {
	b := New()
	b.Write([]byte("hello"))
	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, []byte{}, b.Bytes())
}
