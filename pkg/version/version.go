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

// Package version keeps the build information, injected at the build time
// via the -ldflags "-X ..." options.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of the build
	Version = "v0.0.0-dev"
	// GitCommit is the git commit hash the build is made from
	GitCommit = "unknown"
	// BuildDate is the date when the build is made
	BuildDate = "unknown"
)

// BuildVersionString returns the human-readable build description
func BuildVersionString() string {
	return fmt.Sprintf("%s (commit=%s, built=%s, %s)", Version, GitCommit, BuildDate, runtime.Version())
}
