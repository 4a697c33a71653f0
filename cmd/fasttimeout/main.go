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
package main

import (
	"fmt"
	"os"
	"syscall"

	appctx "github.com/acquirecloud/fasttimeout/context"
	"github.com/acquirecloud/fasttimeout/logging"
	"github.com/acquirecloud/fasttimeout/pkg/bench"
	"github.com/acquirecloud/fasttimeout/pkg/version"
	"github.com/logrange/linker"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fasttimeout",
		Short: "fasttimeout is the utility tool for the coalesced timeout library",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel == "debug" {
				logging.SetLevel(logging.DEBUG)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "the logging level: info or debug")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "runs the create-arm-cancel benchmark over the selected timer backend",
		RunE:  runBench,
	}
	benchCmd.Flags().StringVar(&cfgFile, "config", "", "the benchmark config file (YAML or JSON)")
	benchCmd.Flags().String("backend", "", "the timer backend: fast or std")
	benchCmd.Flags().Int("concurrency", 0, "the number of the worker goroutines")
	benchCmd.Flags().Int("iterations", 0, "the number of the timeouts per worker")
	benchCmd.Flags().Int("timeout-ms", 0, "the timeout duration in milliseconds")
	benchCmd.Flags().Int("resolution-ms", 0, "the wheel tick in milliseconds (fast backend)")
	benchCmd.Flags().Int("shards", 0, "the number of the wheel buckets (fast backend)")
	rootCmd.AddCommand(benchCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "prints the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.BuildVersionString())
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	log := logging.NewLogger("main")
	log.Infof("starting bench: %s", version.BuildVersionString())

	cfg, err := bench.BuildConfig(cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	ctx := appctx.NewSignalsContext(os.Interrupt, syscall.SIGTERM)

	r := bench.NewRunner(*cfg)
	inj := linker.New()
	inj.Register(linker.Component{Name: "", Value: r})
	inj.Init(ctx)
	defer inj.Shutdown()

	res, err := r.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d ops in %s, %s per op\n", res.RunID, res.Ops, res.Elapsed, res.PerOp)
	if res.WheelStats != nil {
		fmt.Printf("wheel: %d waiters served by %d physical timers (%d fired, %d disarmed)\n",
			res.WheelStats.WaitersRegistered, res.WheelStats.TimersCreated,
			res.WheelStats.TimersFired, res.WheelStats.TimersStopped)
	}
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *bench.Config) {
	if cmd.Flags().Changed("backend") {
		cfg.Backend, _ = cmd.Flags().GetString("backend")
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations, _ = cmd.Flags().GetInt("iterations")
	}
	if cmd.Flags().Changed("timeout-ms") {
		cfg.TimeoutMs, _ = cmd.Flags().GetInt("timeout-ms")
	}
	if cmd.Flags().Changed("resolution-ms") {
		cfg.ResolutionMs, _ = cmd.Flags().GetInt("resolution-ms")
	}
	if cmd.Flags().Changed("shards") {
		cfg.Shards, _ = cmd.Flags().GetInt("shards")
	}
}
