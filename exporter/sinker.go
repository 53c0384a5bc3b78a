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

package exporter

// SinkKind names one of the exporter's pluggable sink backends.
type SinkKind string

const (
	SinkFile         SinkKind = "file"
	SinkMongo        SinkKind = "mongo"
	SinkMetricsWrite SinkKind = "metricswrite"
)

// Sinker writes PartRecords (or, for SinkMetricsWrite, periodic
// summary write-requests) to a single backend.
type Sinker interface {
	// Name returns the sink kind this instance implements.
	Name() SinkKind

	// Sink writes data. For SinkFile/SinkMongo, data is a PartRecord;
	// for SinkMetricsWrite it is a *prompb.WriteRequest.
	Sink(data any) error

	// Close releases the sink's resources.
	Close()
}

// CreateFunc constructs a Sinker from the exporter's Config.
type CreateFunc func(Config) (Sinker, error)

var sinkFactory = map[SinkKind]CreateFunc{}

// Get returns the registered constructor for name, or nil.
func Get(name SinkKind) CreateFunc {
	return sinkFactory[name]
}

// Register adds a sink constructor under name. Called from each sink
// package's init.
func Register(name SinkKind, createFunc CreateFunc) {
	sinkFactory[name] = createFunc
}
