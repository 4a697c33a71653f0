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
Package timeout allows to bound an asynchronous operation by a deadline. The
result of the bounded operation is either the operation's own outcome, passed
through untouched, or errors.ErrElapsed, when the deadline is reached first.

The package is built for services where timeouts are created and canceled at
a very high rate (busy concurrent IOs), so it cuts the two dominating costs of
the naive approach:

  - the deadline timer is created lazily, on the first moment the operation is
    found not ready. An operation which is ready right away (e.g. reading from
    a socket with buffered data) never touches the timer machinery at all.
  - the timers are taken from the coalescing timer.Wheel by default, so all
    the timeouts expiring within the same tick share one physical timer. See
    the timer package for the details and the trade-off (a timeout may fire up
    to one wheel resolution late).

WithTimeout is the regular entry point. WithStdTimeout does the same job over
one-timer-per-call standard timers - same behavior, different resource
profile. Sleep and After expose the shared-wheel delay on its own, without an
operation to guard.
*/
package timeout
