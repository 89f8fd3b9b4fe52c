package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

// main parses flags and hands off to the serve or routes command. Wiring lives
// in app.go; business logic lives in internal packages.
func main() {
	if err := rootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

type serveFlags struct {
	addr        string
	logLevel    string
	logFormat   string
	seedFile    string
	redisURL    string
	submitDelay time.Duration
	actionDelay time.Duration
	failureRate float64
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "civreg",
		Short:         "Birth declaration demo backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := serveCmd()
	cmd.AddCommand(serve, routesCmd())
	cmd.RunE = serve.RunE
	cmd.Flags().AddFlagSet(serve.Flags())
	return cmd
}

func serveCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", "", "listen address (overrides CIVREG_ADDR)")
	f.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides CIVREG_LOG_LEVEL)")
	f.StringVar(&flags.logFormat, "log-format", "", "json or text (overrides CIVREG_LOG_FORMAT)")
	f.StringVar(&flags.seedFile, "seed", "", "dashboard seed YAML (overrides CIVREG_SEED_FILE)")
	f.StringVar(&flags.redisURL, "redis-url", "", "session store URL (overrides REDIS_URL)")
	f.DurationVar(&flags.submitDelay, "submit-delay", 0, "simulated submission delay (overrides CIVREG_SUBMIT_DELAY)")
	f.DurationVar(&flags.actionDelay, "action-delay", 0, "simulated action delay (overrides CIVREG_ACTION_DELAY)")
	f.Float64Var(&flags.failureRate, "failure-rate", 0, "share of simulated calls that fail (overrides CIVREG_FAILURE_RATE)")
	return cmd
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the HTTP routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, serveFlags{})
			if err != nil {
				return err
			}
			cfg.Redis.URL = ""
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			routes, ok := a.router.(chi.Routes)
			if !ok {
				return fmt.Errorf("router does not expose its routes")
			}
			out := cmd.OutOrStdout()
			return chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
				_, err := fmt.Fprintf(out, "%-7s %s\n", method, route)
				return err
			})
		},
	}
}
