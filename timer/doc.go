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
Package timer contains the Backend abstraction for obtaining a "fires at the
deadline" notification and its two implementations:

  - StdBackend, which arms one standard timer per request. It is the simple,
    always-correct variant.
  - Wheel, which rounds the requested deadlines up to a fixed resolution
    boundary and shares one physical timer between all the waiters whose
    rounded deadlines match. On a busy service, where thousands of timeouts
    are created and canceled every second, the sharing reduces the number of
    the armed timers dramatically.

Both implementations provide the same contract - the Timer handle, whose
channel is closed when the deadline is reached, so the callers may not be
aware which one of them stays behind the Backend.
*/
package timer
