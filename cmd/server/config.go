package main

import (
	"github.com/spf13/cobra"

	"civreg/internal/platform/config"
)

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command, flags serveFlags) (config.Server, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Server{}, err
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("addr") {
		cfg.Addr = flags.addr
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if changed("seed") {
		cfg.SeedFile = flags.seedFile
	}
	if changed("redis-url") {
		cfg.Redis.URL = flags.redisURL
	}
	if changed("submit-delay") {
		cfg.Simulator.SubmitDelay = flags.submitDelay
	}
	if changed("action-delay") {
		cfg.Simulator.ActionDelay = flags.actionDelay
	}
	if changed("failure-rate") {
		cfg.Simulator.FailureRate = flags.failureRate
	}
	return cfg, cfg.Validate()
}
