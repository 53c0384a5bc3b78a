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

package parthash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasherDeterministic(t *testing.T) {
	h1 := NewHasher("file_1", "test_file1.txt", "application/octet-stream")
	h1.Write([]byte("Compoo"))
	h1.Write([]byte("per"))

	h2 := NewHasher("file_1", "test_file1.txt", "application/octet-stream")
	h2.Write([]byte("Compooper"))

	assert.Equal(t, h1.Sum64(), h2.Sum64())
}

func TestHasherDistinguishesFields(t *testing.T) {
	a := NewHasher("a", "", "").Sum64()
	b := NewHasher("b", "", "").Sum64()
	assert.NotEqual(t, a, b)
}
