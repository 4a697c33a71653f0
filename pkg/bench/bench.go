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

// Package bench contains the benchmark runner, which measures the cost of
// creating, arming and canceling timeouts over the selected timer backend.
// The interesting number is the difference between the "fast" and the "std"
// backends under high concurrency - the reason the library exists.
package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acquirecloud/fasttimeout/errors"
	"github.com/acquirecloud/fasttimeout/logging"
	"github.com/acquirecloud/fasttimeout/timeout"
	"github.com/acquirecloud/fasttimeout/timer"
	"github.com/acquirecloud/fasttimeout/ulidutils"
	"github.com/davecgh/go-spew/spew"
)

type (
	// Runner executes the benchmark described by the Config. The object
	// implements the linker lifecycle interfaces, so it may be wired into an
	// application via the linker.Injector.
	Runner struct {
		cfg     Config
		logger  logging.Logger
		backend timer.Backend
		wheel   *timer.Wheel
	}

	// Result describes one benchmark run outcome
	Result struct {
		// RunID is the unique ID of the run
		RunID string
		// Ops is the total number of the timeouts created
		Ops int64
		// Elapsed is the total wall-clock duration of the run
		Elapsed time.Duration
		// PerOp is the average cost of one create-arm-cancel cycle
		PerOp time.Duration
		// WheelStats holds the wheel counters for the "fast" backend run,
		// nil for the "std" one
		WheelStats *timer.Stats
	}
)

// NewRunner creates the new Runner by the config provided
func NewRunner(cfg Config) *Runner {
	r := new(Runner)
	r.cfg = cfg
	r.logger = logging.NewLogger("bench.Runner")
	return r
}

// Init implements linker.Initializer
func (r *Runner) Init(ctx context.Context) error {
	if err := r.cfg.check(); err != nil {
		return err
	}
	if r.cfg.Backend == BackendStd {
		r.backend = timer.StdBackend{}
		return nil
	}
	w, err := timer.NewWheel(timer.Config{
		Resolution: time.Duration(r.cfg.ResolutionMs) * time.Millisecond,
		Shards:     r.cfg.Shards,
	})
	if err != nil {
		return err
	}
	r.wheel = w
	r.backend = w
	return nil
}

// Shutdown implements linker.Shutdowner
func (r *Runner) Shutdown() {
	if r.wheel != nil {
		r.wheel.Shutdown()
		r.wheel = nil
	}
}

// Run executes the benchmark. Every worker repeatedly creates a timeout over
// a never-completing future, arms its deadline and cancels it - the lifecycle
// a timeout has on a busy IO, where the guarded operation normally completes
// in time and the armed deadline is thrown away.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.backend == nil {
		return nil, fmt.Errorf("the runner is not initialized: %w", errors.ErrInvalid)
	}
	runID := ulidutils.NewID()
	r.logger.Infof("starting run %s", runID)
	r.logger.Infof(spew.Sprint(r.cfg))

	// the closed ctx makes Timeout.Wait arm the deadline and return right
	// away instead of blocking for the whole timeout duration
	armCtx, cancel := context.WithCancel(context.Background())
	cancel()

	d := time.Duration(r.cfg.TimeoutMs) * time.Millisecond
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fut := timeout.Never[struct{}]()
			for j := 0; j < r.cfg.Iterations; j++ {
				t := timeout.NewWithBackend[struct{}](r.backend, d, fut)
				_, _ = t.Wait(armCtx)
				t.Close()
				if j&0x3ff == 0 && ctx.Err() != nil {
					return
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &Result{
		RunID:   runID,
		Ops:     int64(r.cfg.Concurrency) * int64(r.cfg.Iterations),
		Elapsed: elapsed,
	}
	res.PerOp = time.Duration(int64(elapsed) / res.Ops)
	if r.wheel != nil {
		stats := r.wheel.Stats()
		res.WheelStats = &stats
	}
	r.logger.Infof("run %s is over: %d ops in %s, %s/op", runID, res.Ops, res.Elapsed, res.PerOp)
	if res.WheelStats != nil {
		r.logger.Infof("wheel stats: %d waiters served by %d physical timers", res.WheelStats.WaitersRegistered, res.WheelStats.TimersCreated)
	}
	return res, nil
}
