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

// Package tracekit correlates an upload request with a trace ID, for
// logging only: this repo has no OTel collector pipeline to export
// spans to, so it keeps only the trace.TraceID type itself.
package tracekit

import (
	"crypto/rand"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const headerTraceParent = "traceparent"

// TraceIDFromHTTPHeader extracts a trace ID from a W3C traceparent
// header: "traceparent: 00-{trace-id}-{parent-id}-{trace-flags}".
func TraceIDFromHTTPHeader(h http.Header) (trace.TraceID, bool) {
	var empty trace.TraceID
	s := h.Get(headerTraceParent)
	if s == "" {
		return empty, false
	}

	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return empty, false
	}
	if parts[0] != "00" {
		return empty, false
	}

	traceID, err := trace.TraceIDFromHex(parts[1])
	if err != nil {
		return empty, false
	}
	return traceID, true
}

// RandomTraceID generates a trace ID for requests that arrive without
// one, so every upload can still be correlated across log lines.
func RandomTraceID() trace.TraceID {
	var id trace.TraceID
	rand.Read(id[:])
	return id
}
