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
package timer

import (
	"sync/atomic"
	"time"
)

type (
	// Backend interface allows to obtain a notification which fires when the
	// requested duration passes. The implementations differ by the resource
	// profile only, the contract stays the same, so they are interchangeable
	// from the caller's perspective.
	Backend interface {
		// NewTimer returns the Timer handle, which C() channel will be closed
		// when the d duration passes. The non-nil error indicates that the
		// notification cannot be armed (e.g. the backend is shut down), and
		// in this case the caller must not wait - the notification would
		// never fire.
		NewTimer(d time.Duration) (Timer, error)
	}

	// Timer is the handle of an armed deadline notification
	Timer interface {
		// C returns the channel, which is closed when the deadline is reached
		C() <-chan struct{}
		// Stop releases the handle. It never blocks and it may be called
		// multiple times. After the call the C() channel may stay open
		// forever, so the handle must not be waited on anymore.
		Stop()
	}

	// StdBackend is the direct Backend implementation - one standard timer
	// is armed per every NewTimer call
	StdBackend struct{}

	stdTimer struct {
		done    chan struct{}
		tmr     *time.Timer
		stopped int32
	}
)

var _ Backend = StdBackend{}
var _ Timer = (*stdTimer)(nil)

// NewTimer arms a private standard timer for the duration d. It never fails.
func (StdBackend) NewTimer(d time.Duration) (Timer, error) {
	st := &stdTimer{done: make(chan struct{})}
	st.tmr = time.AfterFunc(d, func() { close(st.done) })
	return st, nil
}

func (st *stdTimer) C() <-chan struct{} {
	return st.done
}

func (st *stdTimer) Stop() {
	if atomic.CompareAndSwapInt32(&st.stopped, 0, 1) {
		st.tmr.Stop()
	}
}
