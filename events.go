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

// EventKind discriminates the payload carried by an Event.
type EventKind int

const (
	// EventNeedData means the StateMachine has drained everything it
	// can safely decide from the current buffer; the caller must Feed
	// more input before calling Next again.
	EventNeedData EventKind = iota

	// EventPart carries a completed part header: a new Part has begun.
	EventPart

	// EventPartData carries one body fragment of the current part.
	EventPartData

	// EventFinished means the terminator was observed; the message is
	// complete and no further parts will be emitted.
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventNeedData:
		return "NeedData"
	case EventPart:
		return "Part"
	case EventPartData:
		return "PartData"
	case EventFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Event is one unit handed back by Parser.Next. Exactly one of Part or
// PartData is populated, according to Kind; both are nil/zero for
// EventNeedData and EventFinished.
type Event struct {
	Kind     EventKind
	Part     *Part
	PartData *PartData
}
