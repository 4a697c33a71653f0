// Copyright 2024 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package errors

import (
	"errors"
)

var (
	// ErrElapsed is returned when a deadline is reached before the guarded
	// operation produces its result. It carries no payload and it is never
	// mixed up with whatever error the operation itself may return.
	ErrElapsed = errors.New("timeout elapsed")

	// ErrInvalid indicates that a parameter or an object value is invalid
	ErrInvalid = errors.New("invalid value")

	// ErrClosed indicates that an object is closed or shut down, so the
	// operation cannot be performed over it anymore
	ErrClosed = errors.New("closed")

	// ErrExhausted indicates that a resource limit is reached, so the request
	// cannot be executed
	ErrExhausted = errors.New("resources exhausted")

	// ErrCanceled indicates that the request is canceled before its completion
	ErrCanceled = errors.New("canceled")

	// ErrCommunication indicates a general communication problem
	ErrCommunication = errors.New("communication problem")

	// ErrInternal indicates an internal problem
	ErrInternal = errors.New("internal error")
)

// Is reports whether the target matches to the err or the err may be
// transformed to the target (e.g. the err is received as a gRPC code-based
// error, see FromGRPCError)
func Is(err, target error) bool {
	if errors.Is(err, target) {
		return true
	}
	return FromGRPCError(err) == target
}
