package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"osccli/internal/config"
	"osccli/internal/dataprocessing"
	apperrors "osccli/internal/errors"
	"osccli/internal/files"
	"osccli/internal/infrastructure"
	"osccli/pkg/contracts/domain"
)

// Options configures a Pipeline
type Options struct {
	Patterns      []string
	Columns       dataprocessing.Columns
	Window        time.Duration
	Interpolation dataprocessing.InterpolationMethod
	Workers       int
}

// OptionsFromConfig maps the loaded configuration onto pipeline options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Patterns: cfg.Data.Patterns,
		Columns: dataprocessing.Columns{
			Timestamp: cfg.Data.TimestampColumn,
			Frequency: cfg.Data.FrequencyColumn,
			Magnitude: cfg.Data.MagnitudeColumn,
		},
		Window:        cfg.Pipeline.Window,
		Interpolation: dataprocessing.InterpolationMethod(cfg.Pipeline.Interpolation),
		Workers:       cfg.Pipeline.Workers,
	}
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithMetrics reports run counters to m
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTracer emits run and file spans through tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = newRunTracer(tracer) }
}

// Pipeline runs locate, load, reconstruct, clean and aggregate over a
// directory of source files
type Pipeline struct {
	discovery     *files.Discovery
	loader        *dataprocessing.Loader
	reconstructor *dataprocessing.Reconstructor
	cleaner       *dataprocessing.Cleaner
	workers       int

	metrics *infrastructure.PipelineMetrics
	tracer  *runTracer
	logger  *slog.Logger
}

// New creates a pipeline. Without WithMetrics the pipeline keeps a private
// registry; without WithTracer spans are not recorded.
func New(opts Options, logger *slog.Logger, options ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Columns == (dataprocessing.Columns{}) {
		opts.Columns = dataprocessing.DefaultColumns
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	p := &Pipeline{
		discovery:     files.NewDiscovery(opts.Patterns, logger),
		loader:        dataprocessing.NewLoader(opts.Columns, logger),
		reconstructor: dataprocessing.NewReconstructor(opts.Window),
		cleaner:       dataprocessing.NewCleaner(opts.Interpolation),
		workers:       opts.Workers,
		logger:        logger,
	}
	for _, o := range options {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = infrastructure.NewPipelineMetrics()
	}
	if p.tracer == nil {
		p.tracer = newRunTracer(nil)
	}
	return p
}

// Result is the outcome of one run
type Result struct {
	RunID        string
	Files        []domain.SourceFile
	Dataset      *dataprocessing.Dataset
	Diagnostics  []domain.Diagnostic
	FilesLoaded  int
	FilesSkipped int
	Duration     time.Duration
}

// Metrics returns the collectors the pipeline reports to
func (p *Pipeline) Metrics() *infrastructure.PipelineMetrics {
	return p.metrics
}

// Locate lists the source files in dir, sorted by path
func (p *Pipeline) Locate(dir string) []domain.SourceFile {
	return p.discovery.FindSourceFiles(dir)
}

// Snapshot locates the source files in dir and fingerprints them
func (p *Pipeline) Snapshot(dir string) files.Snapshot {
	return p.discovery.TakeSnapshot(dir)
}

// Run processes every source file located in dir
func (p *Pipeline) Run(ctx context.Context, dir string) (*Result, error) {
	return p.RunFiles(ctx, p.Locate(dir))
}

// RunFiles processes the given files and merges them in the given order.
// Files that cannot be used are skipped and reported in Diagnostics; the
// only error is the cancellation of ctx.
func (p *Pipeline) RunFiles(ctx context.Context, sources []domain.SourceFile) (*Result, error) {
	start := time.Now()
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	ctx, span := p.tracer.TraceRun(ctx, runID, len(sources), p.workers)
	defer span.End()

	p.logger.InfoContext(ctx, "Pipeline run started",
		slog.Int("files", len(sources)),
		slog.Int("workers", p.workers))
	p.metrics.FilesDiscovered.Add(float64(len(sources)))

	outcomes, err := p.processAll(ctx, sources)
	if err != nil {
		span.RecordError(err)
		p.logger.WarnContext(ctx, "Pipeline run cancelled", slog.String("error", err.Error()))
		return nil, err
	}

	res := &Result{RunID: runID, Files: sources}
	var results []dataprocessing.FileResult
	for _, out := range outcomes {
		res.Diagnostics = append(res.Diagnostics, out.diagnostics...)
		if out.result == nil {
			res.FilesSkipped++
			p.metrics.FilesSkipped.WithLabelValues(string(out.skipReason)).Inc()
			continue
		}
		res.FilesLoaded++
		results = append(results, *out.result)
		p.metrics.FilesLoaded.Inc()
		p.metrics.RowsLoaded.Add(float64(len(out.result.Records)))
		p.metrics.RowsDropped.Add(float64(out.dropped))
		p.metrics.ValuesInterpolated.Add(float64(out.filled))
	}
	res.Dataset = dataprocessing.Aggregate(results)
	res.Duration = time.Since(start)

	p.tracer.RecordRunCompletion(span, res)
	p.logger.InfoContext(ctx, "Pipeline run completed",
		slog.Int("files_loaded", res.FilesLoaded),
		slog.Int("files_skipped", res.FilesSkipped),
		slog.Int("records", res.Dataset.Len()),
		slog.Int("sources", len(res.Dataset.Sources())),
		slog.Duration("duration", res.Duration))

	return res, nil
}

// processAll runs processFile for every source. Outcomes land in per-index
// slots so the merge order never depends on scheduling.
func (p *Pipeline) processAll(ctx context.Context, sources []domain.SourceFile) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(sources))

	if p.workers <= 1 || len(sources) < 2 {
		for i, src := range sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = p.processFile(ctx, src)
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.processFile(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// fileOutcome is what one file contributes to a run
type fileOutcome struct {
	result      *dataprocessing.FileResult
	diagnostics []domain.Diagnostic
	skipReason  domain.DiagnosticKind
	err         error
	dropped     int
	filled      int
}

// processFile loads, reconstructs and cleans one file
func (p *Pipeline) processFile(ctx context.Context, src domain.SourceFile) (out fileOutcome) {
	start := time.Now()
	ctx, span := p.tracer.TraceFile(ctx, src)
	defer func() {
		elapsed := time.Since(start)
		p.metrics.FileDuration.Observe(elapsed.Seconds())
		p.tracer.RecordFileCompletion(span, out, elapsed)
		span.End()
	}()

	loaded, err := p.loader.Load(src)
	if err != nil {
		return p.skip(ctx, src, loadFailureKind(err), err)
	}

	out.dropped = loaded.DroppedRows
	if loaded.DroppedRows > 0 {
		out.diagnostics = append(out.diagnostics, domain.Diagnostic{
			Source:  src.Name,
			Kind:    domain.DiagRowsDropped,
			Message: "rows without a parseable timestamp were dropped",
			Rows:    loaded.DroppedRows,
		})
		p.logger.WarnContext(ctx, "Rows dropped",
			slog.String("file", src.Name),
			slog.Int("rows", loaded.DroppedRows))
	}

	reconstructed := p.reconstructor.Reconstruct(loaded.Records)
	cleaned, filled, err := p.cleaner.Clean(reconstructed)
	if err != nil {
		skipped := p.skip(ctx, src, domain.DiagNoFrequencyValues, err)
		skipped.diagnostics = append(out.diagnostics, skipped.diagnostics...)
		skipped.dropped = out.dropped
		return skipped
	}

	out.filled = filled
	if filled > 0 {
		out.diagnostics = append(out.diagnostics, domain.Diagnostic{
			Source:  src.Name,
			Kind:    domain.DiagValuesInterpolated,
			Message: "missing frequency values were interpolated",
			Rows:    filled,
		})
		p.logger.DebugContext(ctx, "Frequency values interpolated",
			slog.String("file", src.Name),
			slog.Int("values", filled))
	}

	out.result = &dataprocessing.FileResult{
		Source:       src,
		Records:      cleaned,
		ExtraColumns: loaded.ExtraColumns,
	}
	return out
}

// skip records a file-level failure
func (p *Pipeline) skip(ctx context.Context, src domain.SourceFile, kind domain.DiagnosticKind, err error) fileOutcome {
	p.logger.WarnContext(ctx, "Skipping source file",
		slog.String("file", src.Name),
		slog.String("reason", string(kind)),
		slog.String("error", err.Error()))

	return fileOutcome{
		skipReason: kind,
		err:        err,
		diagnostics: []domain.Diagnostic{{
			Source:  src.Name,
			Kind:    kind,
			Message: diagnosticMessage(err),
		}},
	}
}

// loadFailureKind maps a loader error onto a diagnostic kind
func loadFailureKind(err error) domain.DiagnosticKind {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeUnsupportedFormat:
		return domain.DiagUnsupportedFormat
	case apperrors.ErrTypeMissingColumn:
		return domain.DiagMissingColumn
	case apperrors.ErrTypeNoData:
		return domain.DiagNoParseableRows
	default:
		return domain.DiagReadFailed
	}
}

func diagnosticMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return err.Error()
}
