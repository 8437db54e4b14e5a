/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package store

import (
	"fmt"

	"github.com/cvecio/cvec"
)

// Error is a message paired with one of the ERR_* codes from the root
// cvec package, so callers can switch on Error.Code() without string
// matching.
type Error struct {
	msg  string
	code int
}

func newError(code int, format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), code: code}
}

func (e *Error) Error() string { return e.msg }

// Code returns the ERR_* classification of the failure.
func (e *Error) Code() int { return e.code }

var (
	// ErrCorrupted reports deserialize-time corruption (ERR_CORRUPTED),
	// fatal for the operation that observed it.
	ErrCorrupted = func(format string, args ...any) error {
		return newError(cvec.ERR_CORRUPTED, format, args...)
	}

	// ErrCeiling reports a context-pool ceiling that cannot be honoured
	// (ERR_CEILING). No operation in package store returns it; Insert
	// works through Swap and needs at most two contexts.
	ErrCeiling = func(format string, args ...any) error {
		return newError(cvec.ERR_CEILING, format, args...)
	}

	// ErrInvalidParam reports an out-of-contract argument
	// (ERR_INVALID_PARAM).
	ErrInvalidParam = func(format string, args ...any) error {
		return newError(cvec.ERR_INVALID_PARAM, format, args...)
	}

	// ErrOutOfRange reports an index outside [0, size()) (ERR_OUT_OF_RANGE).
	ErrOutOfRange = func(format string, args ...any) error {
		return newError(cvec.ERR_OUT_OF_RANGE, format, args...)
	}

	// ErrBadWire reports a malformed serialized stream (ERR_BAD_WIRE).
	ErrBadWire = func(format string, args ...any) error {
		return newError(cvec.ERR_BAD_WIRE, format, args...)
	}
)
