// Copyright 2024 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
/*
Package errors contains the general class of errors the library works with. It is
proposed to use the globally defined error variables to describe the situations
that may happen while a timeout is armed or waited for. ErrElapsed is the most
important one - it is the signal a caller receives when the deadline is reached
before the guarded operation produces its result.

The package also contains some gRPC helper functions that allow to encode the
general errors to the gRPC code-based errors, so the timeout outcomes can be
passed through a distributed system.
*/
package errors
