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
package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/acquirecloud/fasttimeout/errors"
	"github.com/acquirecloud/fasttimeout/logging"
	"github.com/ghodss/yaml"
)

type (
	// Config defines the benchmark settings
	Config struct {
		// Backend selects the timer backend: "fast" for the shared wheel or
		// "std" for one-timer-per-call standard timers
		Backend string
		// Concurrency is the number of the worker goroutines creating and
		// canceling timeouts in parallel
		Concurrency int
		// Iterations is the number of the timeouts every worker creates
		Iterations int
		// TimeoutMs is the duration of every armed timeout in milliseconds
		TimeoutMs int
		// ResolutionMs is the wheel tick in milliseconds ("fast" backend only)
		ResolutionMs int
		// Shards is the number of the wheel buckets ("fast" backend only)
		Shards int
	}
)

const (
	// BackendFast selects the coalescing timer wheel
	BackendFast = "fast"
	// BackendStd selects the direct standard timers
	BackendStd = "std"
)

// GetDefaultConfig returns the default benchmark config
func GetDefaultConfig() Config {
	return Config{
		Backend:      BackendFast,
		Concurrency:  runtime.GOMAXPROCS(0),
		Iterations:   1000000,
		TimeoutMs:    1000,
		ResolutionMs: 10,
		Shards:       32,
	}
}

// BuildConfig returns the benchmark config - the default one, overwritten by
// the values from the YAML (or JSON) cfgFile, if provided
func BuildConfig(cfgFile string) (*Config, error) {
	log := logging.NewLogger("bench.ConfigBuilder")
	cfg := GetDefaultConfig()
	if cfgFile == "" {
		return &cfg, nil
	}
	log.Infof("trying to build config. cfgFile=%s", cfgFile)
	buf, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("could not read data from the file %s: %w", cfgFile, err)
	}
	if err = yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal the file %s: %w", cfgFile, err)
	}
	return &cfg, nil
}

// String implements fmt.Stringify interface in a pretty console form
func (c *Config) String() string {
	b, _ := json.MarshalIndent(*c, "", "  ")
	return string(b)
}

func (c *Config) check() error {
	if c.Backend != BackendFast && c.Backend != BackendStd {
		return fmt.Errorf("unknown backend %q, must be %q or %q: %w", c.Backend, BackendFast, BackendStd, errors.ErrInvalid)
	}
	if c.Concurrency <= 0 || c.Iterations <= 0 {
		return fmt.Errorf("concurrency=%d and iterations=%d must be positive: %w", c.Concurrency, c.Iterations, errors.ErrInvalid)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("timeoutMs=%d must be positive: %w", c.TimeoutMs, errors.ErrInvalid)
	}
	return nil
}
