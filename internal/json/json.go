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

// Package json re-exports goccy/go-json's encoder/decoder so callers
// don't import the third-party package directly, matching encoding/json's
// Marshal/Unmarshal/NewEncoder/NewDecoder surface.
package json

import (
	"io"

	gojson "github.com/goccy/go-json"
)

var (
	Marshal   = gojson.Marshal
	Unmarshal = gojson.Unmarshal
)

func NewEncoder(w io.Writer) *gojson.Encoder {
	return gojson.NewEncoder(w)
}

func NewDecoder(r io.Reader) *gojson.Decoder {
	return gojson.NewDecoder(r)
}
