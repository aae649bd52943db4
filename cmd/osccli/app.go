package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"osccli/internal/config"
	apperrors "osccli/internal/errors"
	"osccli/internal/infrastructure"
	"osccli/internal/pipeline"
	"osccli/internal/validation"
	"osccli/pkg/contracts"
)

// rootOptions are the persistent flags; each one overrides its config value
// only when given on the command line
type rootOptions struct {
	configPath  string
	dir         string
	workers     int
	logLevel    string
	metricsFile string
	trace       bool
}

// app carries what every subcommand needs once setup has run
type app struct {
	out    io.Writer
	errOut io.Writer

	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	tracing   *infrastructure.Tracing
	validator *validation.FileValidator
	pipeline  *pipeline.Pipeline
	memo      *pipeline.Memo
}

func newRootCommand(a *app) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "osccli",
		Short:         "Reconstruct and explore grid oscillation recordings",
		Version:       contracts.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.dir, "dir", "", "directory holding the source files")
	flags.IntVar(&opts.workers, "workers", 1, "files processed concurrently")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	flags.BoolVar(&opts.trace, "trace", false, "print trace spans to stderr")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewValidationError(err.Error(), nil)
	})

	cmd.AddCommand(
		newFilesCommand(a),
		newSourcesCommand(a),
		newSummaryCommand(a),
		newPreviewCommand(a),
		newExportCommand(a),
	)
	return cmd
}

// setup loads configuration and builds the logger, tracer and pipeline
func (a *app) setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Data.Dir = opts.dir
	}
	if flags.Changed("workers") {
		cfg.Pipeline.Workers = opts.workers
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}
	if flags.Changed("trace") {
		cfg.Telemetry.Tracing = opts.trace
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return apperrors.NewConfigError("failed to resolve paths", err)
	}
	a.paths = paths

	logger, err := infrastructure.InitializeLogger(cfg.Logging, a.errOut)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}
	a.logger = logger
	logger.Debug("Configuration loaded", slog.String("config", cfg.String()))
	paths.LogPathResolution(logger)

	a.validator = validation.NewFileValidator(logger)
	a.validator.CheckDataDir(paths.DataDir)

	tracing, err := infrastructure.InitializeTracing(infrastructure.TracingConfig{
		Enabled: cfg.Telemetry.Tracing,
		Pretty:  cfg.Telemetry.TracePretty,
		Writer:  a.errOut,
	}, logger)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize tracing", err)
	}
	a.tracing = tracing

	opt := pipeline.OptionsFromConfig(cfg)
	a.pipeline = pipeline.New(opt, logger, pipeline.WithTracer(tracing.Tracer()))
	a.memo = pipeline.NewMemo(a.pipeline)
	return nil
}

// teardown flushes spans and writes the metrics file. It is a no-op when
// setup did not complete.
func (a *app) teardown(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	if a.cfg.Telemetry.MetricsFile != "" {
		if err := a.pipeline.Metrics().WriteTextfile(a.cfg.Telemetry.MetricsFile); err != nil {
			return apperrors.NewStorageError("failed to write metrics", err)
		}
		a.logger.Info("Metrics written", slog.String("path", a.cfg.Telemetry.MetricsFile))
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracing: %w", err)
	}
	return nil
}

// result runs the pipeline over the data directory, reusing a cached run for
// an unchanged snapshot, and reports skipped files on stderr
func (a *app) result(ctx context.Context) (*pipeline.Result, error) {
	res, err := a.memo.Dataset(ctx, a.pipeline.Snapshot(a.paths.DataDir))
	if err != nil {
		return nil, err
	}
	for _, d := range res.Diagnostics {
		if d.FileSkipped() {
			fmt.Fprintf(a.errOut, "skipped %s\n", d)
		}
	}
	return res, nil
}
