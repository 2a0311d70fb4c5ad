package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/keysift/keysift/internal/config"
	"github.com/keysift/keysift/internal/probe"
	"github.com/keysift/keysift/internal/report"
	"github.com/keysift/keysift/internal/scanner"
	"github.com/keysift/keysift/internal/tiers"
)

type scanFlags struct {
	verbose   bool
	requests  int
	outputDir string
	baseURL   string
	timeout   time.Duration
}

func newRootCommand(cfg config.Config) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "keysift [flags] <keyfile>",
		Short: "Triage a batch of completion-service API keys: invalid, over quota, or working (with tier, rate limit, and org).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, cfg, flags, args[0])
		},
	}

	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log per-key progress to stderr")
	cmd.Flags().IntVarP(&flags.requests, "requests", "r", cfg.MaxRequests, "max number of requests in flight at once")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", cfg.OutputDir, "directory for per-tier result files")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", cfg.BaseURL, "override the service API base URL")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", time.Duration(cfg.ProbeTimeoutSeconds)*time.Second, "per-request timeout")

	return cmd
}

func runScan(cmd *cobra.Command, cfg config.Config, flags scanFlags, keyfile string) error {
	// The input file is the one thing the run cannot do without.
	data, err := os.ReadFile(keyfile)
	if err != nil {
		return fmt.Errorf("reading key file: %w", err)
	}
	keys := scanner.Dedupe(strings.Split(string(data), "\n"))

	log := newLogger(flags.verbose)
	defer func() { _ = log.Sync() }()

	reg, err := tiers.NewRegistryWithOverrides(cfg.Baselines)
	if err != nil {
		return fmt.Errorf("invalid baseline config: %w", err)
	}

	prober := probe.New(reg, probe.Options{
		BaseURL:    flags.baseURL,
		Timeout:    flags.timeout,
		CaptureRaw: flags.verbose,
		Logger:     log,
	})
	sc := scanner.New(prober, reg, scanner.Options{
		MaxInFlight: flags.requests,
		Logger:      log,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Total unique key count: %d, starting the scan...\n\n", len(keys))

	sum := sc.Scan(context.Background(), keys)

	rep := report.New(cmd.OutOrStdout(), flags.outputDir)
	rep.Render(sum)
	if err := rep.WriteFiles(sum); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// newLogger returns a stderr development logger at debug level when verbose,
// and a no-op logger otherwise so normal runs stay quiet beyond the report.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
