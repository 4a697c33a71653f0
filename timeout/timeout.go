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
package timeout

import (
	"context"
	"time"

	"github.com/acquirecloud/fasttimeout/errors"
	"github.com/acquirecloud/fasttimeout/timer"
)

// Timeout bounds one Future by a deadline. The object belongs to its single
// logical caller exclusively and it is not safe for a concurrent use - the
// only shared state lives inside the timer backend.
//
// The deadline timer is not armed on the creation. It is armed by Wait, at
// the first moment the guarded future is found not ready, at most once for
// the Timeout lifetime.
type Timeout[T any] struct {
	fut     Future[T]
	backend timer.Backend
	d       time.Duration
	delay   timer.Timer
	closed  bool
}

// New returns the Timeout over the future f bounded by the duration d. The
// deadline notification is taken from the shared timer.Wheel, so a busy
// caller creating thousands of such timeouts arms only a handful of the
// physical timers.
func New[T any](d time.Duration, f Future[T]) *Timeout[T] {
	return NewWithBackend[T](timer.DefaultWheel(), d, f)
}

// NewWithBackend is like New, but the deadline notifications are taken from
// the backend b
func NewWithBackend[T any](b timer.Backend, d time.Duration, f Future[T]) *Timeout[T] {
	return &Timeout[T]{fut: f, backend: b, d: d}
}

// Wait blocks until the guarded future completes, the deadline is reached or
// the ctx is closed, whatever happens first:
//   - the future result, whatever it is, is returned as is;
//   - errors.ErrElapsed is returned if the deadline is reached first;
//   - ctx.Err() is returned if the ctx is closed first. The deadline stays
//     armed in this case and Wait may be called again.
//
// The future always gets its chance first: if it is complete by the moment of
// the call, its result is returned and the deadline timer is not armed at
// all, even for a zero duration. If both the future and the deadline are
// ready at the same moment, the future result wins.
//
// The hard failure of the timer backend (see timer.Backend.NewTimer) is
// returned as is - a deadline that can never fire must not be waited for.
func (t *Timeout[T]) Wait(ctx context.Context) (T, error) {
	// the guarded operation goes first, a complete one never touches the
	// timer machinery
	select {
	case <-t.fut.Done():
		t.Close()
		return t.fut.Get()
	default:
	}

	if t.delay == nil {
		tmr, err := t.backend.NewTimer(t.d)
		if err != nil {
			var v T
			return v, err
		}
		t.delay = tmr
	}

	select {
	case <-t.fut.Done():
		t.Close()
		return t.fut.Get()
	case <-t.delay.C():
		// the future completion wins the tie
		select {
		case <-t.fut.Done():
			t.Close()
			return t.fut.Get()
		default:
		}
		t.Close()
		var v T
		return v, errors.ErrElapsed
	case <-ctx.Done():
		var v T
		return v, ctx.Err()
	}
}

// Close releases the deadline registration immediately. It never blocks and
// it may be called multiple times. Abandoning a Timeout without the Close
// call is not a correctness problem, but the release keeps the backend waiter
// accounting exact and lets the direct backend disarm its private timer.
//
// The Timeout must not be waited on after the Close call.
func (t *Timeout[T]) Close() {
	if t.closed {
		return
	}
	t.closed = true
	if t.delay != nil {
		t.delay.Stop()
	}
}

// WithTimeout runs the future f with the deadline d over the shared timer
// wheel and returns its outcome: the f's own result or errors.ErrElapsed. See
// Timeout.Wait for the exact semantics.
func WithTimeout[T any](ctx context.Context, d time.Duration, f Future[T]) (T, error) {
	t := New(d, f)
	defer t.Close()
	return t.Wait(ctx)
}

// WithStdTimeout is the WithTimeout variant over the direct timer backend -
// one standard timer is armed per call. It is here as the always-correct
// baseline, the behavior is identical to WithTimeout.
func WithStdTimeout[T any](ctx context.Context, d time.Duration, f Future[T]) (T, error) {
	t := NewWithBackend[T](timer.StdBackend{}, d, f)
	defer t.Close()
	return t.Wait(ctx)
}
