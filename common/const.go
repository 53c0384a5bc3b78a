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

package common

const (
	// App names the application for metric namespacing and logging.
	App = "multipart"

	// Version is the application version.
	Version = "v0.0.1"

	// ReadBlockSize is the default chunk size cmd parse reads from a
	// file or stdin before Feed-ing it to the parser.
	ReadBlockSize = 4096
)
