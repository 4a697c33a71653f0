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

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcToErrors = map[codes.Code]error{
	codes.OK:                nil,
	codes.Canceled:          ErrCanceled,
	codes.Unknown:           ErrCommunication,
	codes.DeadlineExceeded:  ErrElapsed,
	codes.ResourceExhausted: ErrExhausted,
	codes.InvalidArgument:   ErrInvalid,
	codes.Unavailable:       ErrClosed,
	codes.Internal:          ErrInternal,
}

var errorsToCode = map[error]codes.Code{
	ErrElapsed:       codes.DeadlineExceeded,
	ErrInvalid:       codes.InvalidArgument,
	ErrClosed:        codes.Unavailable,
	ErrExhausted:     codes.ResourceExhausted,
	ErrCanceled:      codes.Canceled,
	ErrCommunication: codes.Unknown,
	ErrInternal:      codes.Internal,
}

// FromGRPCError receives a gRPC error (code-based) and returns the one of the
// general errors (ErrElapsed, ErrClosed...)
func FromGRPCError(err error) error {
	if err, ok := grpcToErrors[status.Code(err)]; ok {
		return err
	}
	return ErrInternal
}

// GRPCStatusCode returns the gRPC error status code by the error provided
func GRPCStatusCode(err error) codes.Code {
	code := status.Code(err)
	if code != codes.Unknown {
		return code
	}
	if code, ok := errorsToCode[err]; ok {
		return code
	}
	for e, c := range errorsToCode {
		if errors.Is(err, e) {
			return c
		}
	}
	return codes.Unknown
}

// GRPCWrap wraps the err into a gRPC status error, keeping the code mapping
// defined by the package. The function returns nil if the err is nil
func GRPCWrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(GRPCStatusCode(err), err.Error())
}
