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
	// entry is the one physical timer associated with a tick. It is shared by
	// reference between all the waiters whose rounded deadlines match the
	// tick. The entry state transition is Pending -> Fired, the firing closes
	// the done channel, which wakes every registered waiter exactly once.
	// Whoever comes to an already fired entry finds the channel closed.
	entry struct {
		w    *Wheel
		sh   *shard
		tick int64
		done chan struct{}
		phys *time.Timer

		// the fields below are guarded by sh.lock
		waiters int
		fired   bool
	}

	// waiter is the Timer handle of one registration on the shared entry
	waiter struct {
		e       *entry
		stopped int32
	}
)

var _ Timer = (*waiter)(nil)

func newEntry(w *Wheel, sh *shard, tick int64) *entry {
	e := &entry{w: w, sh: sh, tick: tick, done: make(chan struct{})}
	fireAt := time.Unix(0, tick*int64(w.cfg.Resolution))
	e.phys = time.AfterFunc(time.Until(fireAt), e.fire)
	return e
}

// fire is called by the physical timer when the tick deadline is reached
func (e *entry) fire() {
	sh := e.sh
	sh.lock.Lock()
	if e.fired {
		// lost the race with Shutdown(), everything is done already
		sh.lock.Unlock()
		return
	}
	e.fired = true
	close(e.done)
	woken := e.waiters
	e.waiters = 0
	if sh.entries[e.tick] == e {
		delete(sh.entries, e.tick)
	}
	sh.lock.Unlock()
	atomic.AddInt64(&e.w.fired, 1)
	atomic.AddInt64(&e.w.active, -int64(woken))
}

// release removes one waiter registration. The entry stays armed even with no
// waiters left: a canceled timeout is routinely followed by new ones with the
// same tick (busy IOs create and cancel them all the time), and they must
// keep landing on the one existing physical timer. The entry is swept when it
// fires.
func (e *entry) release() {
	sh := e.sh
	sh.lock.Lock()
	if e.waiters > 0 {
		e.waiters--
		atomic.AddInt64(&e.w.active, -1)
	}
	sh.lock.Unlock()
}

func (wt *waiter) C() <-chan struct{} {
	return wt.e.done
}

func (wt *waiter) Stop() {
	if atomic.CompareAndSwapInt32(&wt.stopped, 0, 1) {
		wt.e.release()
	}
}
