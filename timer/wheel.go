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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/acquirecloud/fasttimeout/errors"
	"github.com/acquirecloud/fasttimeout/logging"
)

type (
	// Config defines the Wheel settings
	Config struct {
		// Resolution defines the tick size. All the deadlines are rounded up
		// to the next Resolution boundary, so the waiters with close deadlines
		// share one physical timer. The bigger the value, the fewer timers are
		// armed, but the later (up to one Resolution) a notification may fire.
		Resolution time.Duration
		// Shards defines the number of the independent buckets the ticks are
		// spread over. Must be a power of two. Every bucket is guarded by its
		// own lock, so arming timers for unrelated deadlines does not hit one
		// critical section.
		Shards int
	}

	// Wheel is the coalescing Backend implementation. It keeps at most one
	// physical timer per distinct tick (the deadline rounded up to the
	// Resolution boundary) system-wide, no matter how many waiters expect it.
	Wheel struct {
		cfg    Config
		logger logging.Logger
		shards []*shard
		closed int32

		created int64
		fired   int64
		stopped int64
		waiters int64
		active  int64
	}

	// Stats provides total numbers accumulated over the Wheel lifetime
	Stats struct {
		// TimersCreated is the number of the physical timers armed
		TimersCreated int64
		// TimersFired is the number of the physical timers fired
		TimersFired int64
		// TimersStopped is the number of the physical timers disarmed before
		// firing (the wheel shutdown is the only reason)
		TimersStopped int64
		// WaitersRegistered is the number of the waiter registrations served
		WaitersRegistered int64
		// WaitersActive is the number of the waiters registered at the moment
		WaitersActive int64
	}

	shard struct {
		lock    sync.Mutex
		entries map[int64]*entry
	}
)

var _ Backend = (*Wheel)(nil)

const (
	defaultResolution = 10 * time.Millisecond
	defaultShards     = 32
)

// GetDefaultConfig returns the default Wheel config
func GetDefaultConfig() Config {
	return Config{
		Resolution: defaultResolution,
		Shards:     defaultShards,
	}
}

// NewWheel creates the new Wheel by the config provided. It returns
// errors.ErrInvalid if the config doesn't pass the sanity check.
func NewWheel(cfg Config) (*Wheel, error) {
	if cfg.Resolution == 0 {
		cfg.Resolution = defaultResolution
	}
	if cfg.Shards == 0 {
		cfg.Shards = defaultShards
	}
	if cfg.Resolution < 0 {
		return nil, fmt.Errorf("the resolution %s could not be negative: %w", cfg.Resolution, errors.ErrInvalid)
	}
	if cfg.Shards < 0 || cfg.Shards&(cfg.Shards-1) != 0 {
		return nil, fmt.Errorf("the number of shards %d must be a power of two: %w", cfg.Shards, errors.ErrInvalid)
	}
	w := new(Wheel)
	w.cfg = cfg
	w.logger = logging.NewLogger("timer.Wheel")
	w.shards = make([]*shard, cfg.Shards)
	for i := range w.shards {
		w.shards[i] = &shard{entries: make(map[int64]*entry)}
	}
	return w, nil
}

// NewTimer returns the Timer handle which fires when the duration d passes,
// rounded up to the next Resolution boundary. The handle shares the physical
// timer with all the other waiters whose rounded deadlines match. It returns
// errors.ErrClosed if the Wheel is shut down - the caller must not wait on a
// handle that can never fire.
func (w *Wheel) NewTimer(d time.Duration) (Timer, error) {
	if d < 0 {
		d = 0
	}
	tick := w.tickAt(time.Now().Add(d))
	sh := w.shards[int(uint64(tick)&uint64(len(w.shards)-1))]

	sh.lock.Lock()
	if atomic.LoadInt32(&w.closed) != 0 {
		sh.lock.Unlock()
		return nil, fmt.Errorf("could not arm a timer: %w", errors.ErrClosed)
	}
	e, ok := sh.entries[tick]
	if !ok {
		e = newEntry(w, sh, tick)
		sh.entries[tick] = e
		atomic.AddInt64(&w.created, 1)
	}
	e.waiters++
	// under the lock, so a concurrent firing never drives the gauge negative
	atomic.AddInt64(&w.active, 1)
	sh.lock.Unlock()

	atomic.AddInt64(&w.waiters, 1)
	return &waiter{e: e}, nil
}

// Shutdown disarms all the physical timers and closes the Wheel, so any
// further NewTimer call will return errors.ErrClosed. The waiters registered
// at the moment of the call are woken up immediately - leaving them waiting
// on deadlines that would never fire is worse than firing early.
func (w *Wheel) Shutdown() {
	if !atomic.CompareAndSwapInt32(&w.closed, 0, 1) {
		return
	}
	woken := 0
	for _, sh := range w.shards {
		sh.lock.Lock()
		for tick, e := range sh.entries {
			if e.phys.Stop() {
				atomic.AddInt64(&w.stopped, 1)
			} else if !e.fired {
				// the physical timer is firing right now, fire() will find
				// the entry fired and bail out, so account it here
				atomic.AddInt64(&w.fired, 1)
			}
			if !e.fired {
				e.fired = true
				close(e.done)
				woken += e.waiters
				e.waiters = 0
			}
			delete(sh.entries, tick)
		}
		sh.lock.Unlock()
	}
	atomic.AddInt64(&w.active, -int64(woken))
	if woken > 0 {
		w.logger.Warnf("shut down with %d waiters still registered, all of them are woken up", woken)
	}
}

// Stats returns the Wheel counters accumulated since the creation
func (w *Wheel) Stats() Stats {
	return Stats{
		TimersCreated:     atomic.LoadInt64(&w.created),
		TimersFired:       atomic.LoadInt64(&w.fired),
		TimersStopped:     atomic.LoadInt64(&w.stopped),
		WaitersRegistered: atomic.LoadInt64(&w.waiters),
		WaitersActive:     atomic.LoadInt64(&w.active),
	}
}

// Armed returns the number of the physical timers armed at the moment
func (w *Wheel) Armed() int64 {
	s := w.Stats()
	return s.TimersCreated - s.TimersFired - s.TimersStopped
}

// tickAt turns the absolute deadline t into the tick number - the deadline
// rounded UP to the next Resolution boundary. Rounding up guarantees that a
// notification never fires before the requested duration passes.
func (w *Wheel) tickAt(t time.Time) int64 {
	res := int64(w.cfg.Resolution)
	return (t.UnixNano() + res - 1) / res
}

var (
	defaultWheel     *Wheel
	defaultWheelOnce sync.Once
)

// DefaultWheel returns the process-wide Wheel with the default config. It is
// created lazily on the first call and it is never shut down.
func DefaultWheel() *Wheel {
	defaultWheelOnce.Do(func() {
		defaultWheel, _ = NewWheel(GetDefaultConfig())
	})
	return defaultWheel
}
