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

import "time"

// PartRecord is the sinkable summary of one fully-drained multipart
// part: its envelope plus a fingerprint, never the body itself.
type PartRecord struct {
	Name        string
	FileName    string
	ContentType string
	Size        int
	Fingerprint uint64
	Time        time.Time
}
