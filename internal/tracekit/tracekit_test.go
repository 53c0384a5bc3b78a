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

package tracekit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceIDFromHTTPHeader(t *testing.T) {
	tests := []struct {
		name        string
		traceParent string
		wantID      string
		wantOK      bool
	}{
		{
			name:        "valid",
			traceParent: "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01",
			wantID:      "0af7651916cd43dd8448eb211c80319c",
			wantOK:      true,
		},
		{
			name:        "invalid trace id",
			traceParent: "00-0af7651916cd43dd8448eb211c80319!-b7ad6b7169203331-01",
			wantOK:      false,
		},
		{
			name:        "invalid version",
			traceParent: "02-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01",
			wantOK:      false,
		},
		{
			name:        "missing header",
			traceParent: "",
			wantOK:      false,
		},
		{
			name:        "malformed shape",
			traceParent: "00-0af7651916cd43dd8448eb211c80319c",
			wantOK:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := make(http.Header)
			if tt.traceParent != "" {
				header.Set(headerTraceParent, tt.traceParent)
			}

			got, ok := TraceIDFromHTTPHeader(header)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				want, _ := trace.TraceIDFromHex(tt.wantID)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestRandomTraceID(t *testing.T) {
	a := RandomTraceID()
	b := RandomTraceID()
	assert.NotEqual(t, a, b)
	assert.True(t, a.IsValid())
}
