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

import "github.com/pkg/errors"

// Phase names a StateMachine state at the point an error was raised.
type Phase string

const (
	PhasePreamble      Phase = "preamble"
	PhaseDelimiterTail Phase = "delimiter_tail"
	PhaseHeaders       Phase = "headers"
	PhaseBody          Phase = "body"
	PhaseEpilogue      Phase = "epilogue"
	PhaseFinished      Phase = "finished"
)

// MalformedDataError reports a structural grammar violation the automaton
// cannot recover from. Once raised, the Parser that produced it is in an
// unusable terminal error state: every subsequent Next call re-raises it.
type MalformedDataError struct {
	Phase Phase
	err   error
}

func (e *MalformedDataError) Error() string {
	return "multipart: malformed data at " + string(e.Phase) + ": " + e.err.Error()
}

func (e *MalformedDataError) Unwrap() error { return e.err }

func newMalformedError(phase Phase, format string, args ...any) *MalformedDataError {
	return &MalformedDataError{Phase: phase, err: errors.Errorf(format, args...)}
}

// UnexpectedExitError reports that a scoped Session was closed before the
// automaton observed Finished. It inherits semantically from an
// end-of-input error: the stream simply stopped too soon.
type UnexpectedExitError struct {
	Phase Phase
}

func (e *UnexpectedExitError) Error() string {
	return "multipart: unexpected exit at " + string(e.Phase) + ": session closed before finished"
}

func newUnexpectedExitError(phase Phase) *UnexpectedExitError {
	return &UnexpectedExitError{Phase: phase}
}

// IsMalformed reports whether err is, or wraps, a *MalformedDataError.
func IsMalformed(err error) bool {
	var target *MalformedDataError
	return errors.As(err, &target)
}

// IsUnexpectedExit reports whether err is, or wraps, an *UnexpectedExitError.
func IsUnexpectedExit(err error) bool {
	var target *UnexpectedExitError
	return errors.As(err, &target)
}
