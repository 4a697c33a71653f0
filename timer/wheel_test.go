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
	"sync"
	"testing"
	"time"

	"github.com/acquirecloud/fasttimeout/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWheel_InvalidConfig(t *testing.T) {
	_, err := NewWheel(Config{Resolution: -time.Millisecond})
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	_, err = NewWheel(Config{Shards: 3})
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	w, err := NewWheel(Config{})
	require.Nil(t, err)
	assert.Equal(t, defaultResolution, w.cfg.Resolution)
	assert.Equal(t, defaultShards, w.cfg.Shards)
}

func TestWheel_Coalescing(t *testing.T) {
	// the huge resolution makes all the deadlines below fall into one tick
	w, err := NewWheel(Config{Resolution: time.Hour, Shards: 4})
	require.Nil(t, err)
	defer w.Shutdown()

	const waiters = 50
	tmrs := make([]Timer, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			tmr, err := w.NewTimer(10 * time.Millisecond)
			assert.Nil(t, err)
			tmrs[idx] = tmr
		}(i)
	}
	wg.Wait()

	stats := w.Stats()
	assert.Equal(t, int64(1), stats.TimersCreated)
	assert.Equal(t, int64(waiters), stats.WaitersRegistered)
	assert.Equal(t, int64(1), w.Armed())

	// all the waiters share the same notification channel
	for i := 1; i < waiters; i++ {
		assert.True(t, tmrs[0].C() == tmrs[i].C())
	}

	for _, tmr := range tmrs {
		tmr.Stop()
	}
	// the entry stays armed until it fires, ready to serve the next waiters
	assert.Equal(t, int64(0), w.Stats().WaitersActive)
	assert.Equal(t, int64(1), w.Armed())
}

func TestWheel_FireWakesAll(t *testing.T) {
	w, err := NewWheel(Config{Resolution: 10 * time.Millisecond})
	require.Nil(t, err)
	defer w.Shutdown()

	const waiters = 20
	tmrs := make([]Timer, waiters)
	for i := 0; i < waiters; i++ {
		tmrs[i], err = w.NewTimer(30 * time.Millisecond)
		require.Nil(t, err)
	}
	for _, tmr := range tmrs {
		select {
		case <-tmr.C():
		case <-time.After(time.Second):
			t.Fatal("the waiter is not woken up")
		}
	}
	assert.Equal(t, int64(0), w.Armed())
}

func TestWheel_FireWindow(t *testing.T) {
	res := 20 * time.Millisecond
	d := 50 * time.Millisecond
	w, err := NewWheel(Config{Resolution: res})
	require.Nil(t, err)
	defer w.Shutdown()

	start := time.Now()
	tmr, err := w.NewTimer(d)
	require.Nil(t, err)
	<-tmr.C()
	elapsed := time.Since(start)
	// never before d, up to one resolution late (plus the scheduling slack)
	assert.True(t, elapsed >= d)
	assert.True(t, elapsed <= d+res+300*time.Millisecond)
}

func TestWheel_ZeroDuration(t *testing.T) {
	w, err := NewWheel(Config{Resolution: 10 * time.Millisecond})
	require.Nil(t, err)
	defer w.Shutdown()

	tmr, err := w.NewTimer(0)
	require.Nil(t, err)
	select {
	case <-tmr.C():
	case <-time.After(time.Second):
		t.Fatal("the zero-duration timer did not fire")
	}

	tmr, err = w.NewTimer(-time.Second)
	require.Nil(t, err)
	select {
	case <-tmr.C():
	case <-time.After(time.Second):
		t.Fatal("the negative-duration timer did not fire")
	}
}

func TestWheel_RegisterAfterFire(t *testing.T) {
	w, err := NewWheel(Config{Resolution: 10 * time.Millisecond})
	require.Nil(t, err)
	defer w.Shutdown()

	tmr, err := w.NewTimer(20 * time.Millisecond)
	require.Nil(t, err)
	<-tmr.C()

	// the fired entry is swept, the late arrival gets a fresh one, which
	// fires right away rather than keeps the waiter forever
	tmr, err = w.NewTimer(0)
	require.Nil(t, err)
	select {
	case <-tmr.C():
	case <-time.After(time.Second):
		t.Fatal("the late waiter is not woken up")
	}
}

func TestWheel_CancelDoesNotDisturbOthers(t *testing.T) {
	w, err := NewWheel(Config{Resolution: time.Hour})
	require.Nil(t, err)
	defer w.Shutdown()

	t1, err := w.NewTimer(10 * time.Millisecond)
	require.Nil(t, err)
	t2, err := w.NewTimer(10 * time.Millisecond)
	require.Nil(t, err)
	require.Equal(t, int64(1), w.Stats().TimersCreated)

	// the first waiter leaves, the entry must stay armed for the second one
	t1.Stop()
	assert.Equal(t, int64(1), w.Armed())
	assert.Equal(t, int64(1), w.Stats().WaitersActive)

	// Stop is idempotent
	t1.Stop()
	assert.Equal(t, int64(1), w.Stats().WaitersActive)

	// the entry outlives the last waiter too: the next registration for the
	// tick must keep hitting the same physical timer
	t2.Stop()
	assert.Equal(t, int64(1), w.Armed())
	assert.Equal(t, int64(0), w.Stats().WaitersActive)
	_, err = w.NewTimer(10 * time.Millisecond)
	require.Nil(t, err)
	assert.Equal(t, int64(1), w.Stats().TimersCreated)
}

func TestWheel_FiresForRemainingWaiters(t *testing.T) {
	w, err := NewWheel(Config{Resolution: 10 * time.Millisecond})
	require.Nil(t, err)
	defer w.Shutdown()

	t1, err := w.NewTimer(40 * time.Millisecond)
	require.Nil(t, err)
	t2, err := w.NewTimer(40 * time.Millisecond)
	require.Nil(t, err)
	t1.Stop()
	select {
	case <-t2.C():
	case <-time.After(time.Second):
		t.Fatal("the remaining waiter is not woken up")
	}
}

func TestWheel_ConcurrentSameTick(t *testing.T) {
	w, err := NewWheel(Config{Resolution: time.Hour, Shards: 16})
	require.Nil(t, err)
	defer w.Shutdown()

	const goroutines = 100
	var wg sync.WaitGroup
	chans := make([]<-chan struct{}, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			tmr, err := w.NewTimer(time.Millisecond)
			assert.Nil(t, err)
			chans[idx] = tmr.C()
		}(i)
	}
	wg.Wait()

	// the racing registrations must converge on one entry - never two
	assert.Equal(t, int64(1), w.Stats().TimersCreated)
	for i := 1; i < goroutines; i++ {
		assert.True(t, chans[0] == chans[i])
	}
}

func TestWheel_Shutdown(t *testing.T) {
	w, err := NewWheel(Config{Resolution: time.Hour})
	require.Nil(t, err)

	tmr, err := w.NewTimer(time.Minute)
	require.Nil(t, err)

	w.Shutdown()
	// the existing waiters are woken up, not left hanging
	select {
	case <-tmr.C():
	case <-time.After(time.Second):
		t.Fatal("the waiter is not woken up on the shutdown")
	}
	assert.Equal(t, int64(0), w.Armed())

	// arming over the shut down wheel is a hard failure
	_, err = w.NewTimer(time.Second)
	assert.True(t, errors.Is(err, errors.ErrClosed))

	// repeatable
	w.Shutdown()
}

func TestWheel_ShardsSpread(t *testing.T) {
	w, err := NewWheel(Config{Resolution: time.Millisecond, Shards: 8})
	require.Nil(t, err)
	defer w.Shutdown()

	for d := time.Duration(1); d <= 16; d++ {
		_, err = w.NewTimer(d * 100 * time.Millisecond)
		require.Nil(t, err)
	}
	cnt := 0
	for _, sh := range w.shards {
		sh.lock.Lock()
		cnt += len(sh.entries)
		sh.lock.Unlock()
	}
	assert.Equal(t, int(w.Stats().TimersCreated), cnt)
	assert.True(t, w.Stats().TimersCreated > 1)
}

func TestDefaultWheel(t *testing.T) {
	w := DefaultWheel()
	require.NotNil(t, w)
	assert.True(t, w == DefaultWheel())
	tmr, err := w.NewTimer(10 * time.Millisecond)
	require.Nil(t, err)
	select {
	case <-tmr.C():
	case <-time.After(time.Second):
		t.Fatal("the default wheel timer did not fire")
	}
}
