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

	"github.com/acquirecloud/fasttimeout/timer"
)

// Sleep blocks the calling goroutine until the duration d passes or the ctx
// is closed, whatever happens first. The function returns nil if it slept the
// whole duration and ctx.Err() otherwise. The sleep is served by the shared
// timer wheel, so it may last up to one wheel resolution longer than
// requested.
func Sleep(ctx context.Context, d time.Duration) error {
	tmr, err := timer.DefaultWheel().NewTimer(d)
	if err != nil {
		return err
	}
	defer tmr.Stop()
	select {
	case <-tmr.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// After returns the channel, which is closed when the duration d passes. The
// notification is served by the shared timer wheel, see Sleep.
func After(d time.Duration) <-chan struct{} {
	// the default wheel is never shut down, so the arming cannot fail
	tmr, _ := timer.DefaultWheel().NewTimer(d)
	return tmr.C()
}
