package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicgeo/capitolverify/internal/capitals"
	"github.com/civicgeo/capitolverify/internal/config"
	"github.com/civicgeo/capitolverify/internal/verify"
	"github.com/civicgeo/capitolverify/pkg/geocode"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "capitolverify",
	Short: "Verify and normalize U.S. state-capital addresses",
	Long: "Reads a JSON list of state-capital addresses, corrects each one against the " +
		"U.S. Census Geocoder, rewrites the file with standardized addresses and " +
		"coordinates, and re-checks the written file for parseability and coordinate uniqueness.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runVerify(ctx, cmd.OutOrStdout(), optionsFrom(cmd, cfg))
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		_ = zap.L().Sync()
	},
}

// runOptions are the resolved settings for one pipeline run.
type runOptions struct {
	input      string
	output     string
	pause      time.Duration
	cachePath  string
	baseURL    string
	benchmark  string
	timeout    time.Duration
	noProgress bool
}

// optionsFrom merges config values with command-line flags; an explicitly set
// flag wins over the config file.
func optionsFrom(cmd *cobra.Command, cfg *config.Config) runOptions {
	opts := runOptions{
		input:     cfg.Input,
		output:    cfg.Output,
		pause:     cfg.Pause,
		cachePath: cfg.Cache,
		baseURL:   cfg.Geocode.BaseURL,
		benchmark: cfg.Geocode.Benchmark,
		timeout:   time.Duration(cfg.Geocode.TimeoutSecs) * time.Second,
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		opts.input, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		opts.output, _ = flags.GetString("output")
	}
	if flags.Changed("pause") {
		opts.pause, _ = flags.GetDuration("pause")
	}
	if flags.Changed("cache") {
		opts.cachePath, _ = flags.GetString("cache")
	}
	opts.noProgress, _ = flags.GetBool("no-progress")

	return opts
}

// runVerify executes the full load → geocode → write → re-check pipeline.
func runVerify(ctx context.Context, out io.Writer, opts runOptions) error {
	log := zap.L().With(zap.String("command", "verify"))

	records, err := capitals.Load(opts.input)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Parsed %d records – JSON syntax OK\n", len(records))

	gcOpts := []geocode.Option{
		geocode.WithPause(opts.pause),
		geocode.WithBaseURL(opts.baseURL),
		geocode.WithBenchmark(opts.benchmark),
	}
	if opts.timeout > 0 {
		gcOpts = append(gcOpts, geocode.WithHTTPClient(&http.Client{Timeout: opts.timeout}))
	}
	if opts.cachePath != "" {
		cache, cacheErr := geocode.OpenCache(opts.cachePath)
		if cacheErr != nil {
			return cacheErr
		}
		defer cache.Close() //nolint:errcheck
		gcOpts = append(gcOpts, geocode.WithCache(cache))
	}

	runner := &verify.Runner{Geocoder: geocode.NewClient(gcOpts...)}
	if !opts.noProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar := progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Geocoding"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		runner.Progress = func() { _ = bar.Add(1) }
	}

	failures, err := runner.Run(ctx, records)
	if err != nil {
		return err
	}

	if err := capitals.Write(opts.output, records); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Verified data written to %s\n", opts.output)

	report, err := verify.Check(opts.output, records, failures)
	if err != nil {
		return err
	}
	report.Print(out)

	log.Info("run complete",
		zap.Int("records", report.Total),
		zap.Int("matched", report.Matched()),
		zap.Int("unmatched", len(report.Failures)),
		zap.Bool("unique_coords", report.UniqueCoords),
	)
	return nil
}

func init() {
	rootCmd.Flags().StringP("input", "i", "us_state_capitals.json", "original JSON file")
	rootCmd.Flags().StringP("output", "o", "us_state_capitals_verified.json", "verified JSON file")
	rootCmd.Flags().Duration("pause", geocode.DefaultPause, "spacing between Census API calls")
	rootCmd.Flags().String("cache", "", "optional SQLite geocode cache path")
	rootCmd.Flags().Bool("no-progress", false, "disable the progress bar")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
