// Package main provides the owlscrubber binary entry point.
// Owlscrubber removes branches, properties and qualified property values
// from an OWL ontology and optionally writes a flat, one line per class
// export of the result.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/owlscrubber/config"
	"github.com/c360studio/owlscrubber/export"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "owlscrubber"
)

// options holds the command-line flags.
type options struct {
	configPath  string
	empty       bool
	individuals bool
	literals    string
	flat        string
	pretty      bool
	input       string
	output      string
	format      string
	synonyms    bool
	metricsFile string
	summary     bool
	watch       bool
	saveConfig  string
	logLevel    string
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	cmd := rootCmd(os.Stdout)
	if len(os.Args) < 2 {
		_ = cmd.Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Scrub branches and properties from an OWL ontology",
		Long: `Owlscrubber loads an OWL ontology, removes the class branches, properties
and qualified property values named in its configuration lists, repairs
dangling references, and saves the result.

Optionally it drops individuals and empty annotations, derives simple
properties from compound values, and writes a flat tab-separated file
with one line per class.`,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), opts, stdout)
		},
	}
	cmd.SetOut(stdout)

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "C", config.DefaultConfigFile, "Configuration file (.properties or .yaml)")
	f.BoolVarP(&opts.empty, "empty", "E", false, "Scrub empty annotation axioms")
	f.BoolVarP(&opts.individuals, "individuals", "I", false, "Keep individuals")
	f.StringVarP(&opts.literals, "literals", "L", "", "Treat compound values as XML literals with this tag prefix")
	f.StringVarP(&opts.flat, "flat", "F", "", "Write the flat file to this location")
	f.BoolVarP(&opts.pretty, "pretty", "P", false, "Pretty print only, skip every scrub phase")
	f.StringVarP(&opts.input, "input", "N", "", "Input ontology location (overrides the configuration)")
	f.StringVarP(&opts.output, "output", "O", "", "Output ontology location (overrides the configuration)")
	f.StringVar(&opts.format, "format", "", "Output format ("+strings.Join(export.FormatNames(), ", ")+")")
	f.BoolVar(&opts.synonyms, "synonyms", false, "Construct simple properties from the simplify list")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus text-format metrics to this file after each run")
	f.BoolVar(&opts.summary, "summary", false, "Print a phase summary table")
	f.BoolVar(&opts.watch, "watch", false, "Re-run when the configuration or list files change")
	f.StringVar(&opts.saveConfig, "save-config", "", "Write the effective configuration as YAML to this path and exit")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	logger := newLogger(opts.logLevel)
	slog.SetDefault(logger)

	if opts.saveConfig != "" {
		return saveConfig(opts, logger)
	}
	if opts.watch {
		return watch(ctx, opts, logger, stdout)
	}
	_, err := runOnce(ctx, opts, logger, stdout)
	return err
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers the command-line flags over the loaded configuration.
func loadConfig(opts *options, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.NewLoader(logger).Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	cfg.Merge(&config.Config{
		Input:  opts.input,
		Output: opts.output,
		Format: opts.format,
		Scrub: config.ScrubConfig{
			Empty:             opts.empty,
			KeepIndividuals:   opts.individuals,
			Literals:          opts.literals != "",
			Prefix:            opts.literals,
			Pretty:            opts.pretty,
			ConstructSynonyms: opts.synonyms,
		},
		Flat: config.FlatConfig{Output: opts.flat},
	})
	return cfg, nil
}

// saveConfig writes the merged configuration, which converts a legacy
// properties file to YAML.
func saveConfig(opts *options, logger *slog.Logger) error {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}
	if err := cfg.SaveToFile(opts.saveConfig); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	logger.Info("Configuration saved", "path", opts.saveConfig)
	return nil
}

// runOnce performs one complete run. It returns the configuration it ran
// with, nil when the configuration could not be loaded.
func runOnce(ctx context.Context, opts *options, logger *slog.Logger, stdout io.Writer) (*config.Config, error) {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return nil, err
	}

	// A fresh registry per run keeps counters scoped to the run.
	registry := metric.NewMetricsRegistry()
	app, err := NewApp(cfg, logger, registry)
	if err != nil {
		return cfg, err
	}

	report, runErr := app.Run(ctx)
	if opts.summary && report != nil {
		printSummary(stdout, report)
	}
	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, registry.PrometheusRegistry()); err != nil {
			logger.Warn("Failed to write metrics file", "path", opts.metricsFile, "error", err)
		}
	}
	return cfg, runErr
}
