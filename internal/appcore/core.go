// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/KHajji/distle/internal/cmdutil"
	"github.com/KHajji/distle/internal/engine"
	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/fileio"
	"github.com/KHajji/distle/internal/metrics"
	"github.com/KHajji/distle/internal/observability"
	"github.com/KHajji/distle/internal/pipeline"
	"github.com/KHajji/distle/internal/runutil"
	"github.com/KHajji/distle/internal/symbol"
	"github.com/KHajji/distle/internal/version"
	"github.com/KHajji/distle/internal/writers"
)

type Options struct {
	Input       string
	Output      string
	Precomputed string

	Kind       symbol.Kind
	Strict     bool
	InputSep   rune
	SkipHeader bool

	Format    string
	Mode      engine.Mode
	OutputSep rune
	MaxDist   *int // nil: exact distances
	Threads   int

	MetricsFile string
	Trace       bool
}

// errWriterStopped ends the engine run once the writer has failed; the
// writer's own error is what gets reported.
var errWriterStopped = errors.New("writer stopped")

// Run loads the inputs, computes every pair and writes them. It returns
// the process exit code. Logs go to log; spans (with --trace) to stderr.
func Run(parent context.Context, stdin io.Reader, stdout, stderr io.Writer, log *zap.Logger, o Options) int {
	log = log.With(zap.String("run_id", uuid.NewString()))
	log.Info("distle starting",
		zap.String("version", version.Version),
		zap.String("input", o.Input),
		zap.Stringer("input_format", o.Kind),
		zap.String("output_format", o.Format),
		zap.Stringer("mode", o.Mode),
	)

	tracer, shutdown, err := observability.Setup(stderr, o.Trace, version.Version)
	if err != nil {
		return fail(log, errs.Wrap(err, errs.TypeConfig, "tracing"))
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Debug("tracer shutdown", zap.Error(err))
		}
	}()
	mc := metrics.NewCollector(prometheus.Labels{"input_format": o.Kind.String()})

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// ---- load ----
	start := time.Now()
	lctx, span := tracer.Start(ctx, "load")
	in, err := pipeline.Load(lctx, pipeline.Config{
		Input:       o.Input,
		Precomputed: o.Precomputed,
		Kind:        o.Kind,
		Strict:      o.Strict,
		InputSep:    o.InputSep,
		SkipHeader:  o.SkipHeader,
		OverlaySep:  o.OutputSep,
	}, stdin)
	span.End()
	mc.ObserveStage("load", time.Since(start))
	if err != nil {
		return fail(log, err)
	}
	n := in.Matrix.Len()
	mc.ObserveSamples(n)
	log.Info("inputs loaded",
		zap.Int("samples", n),
		zap.Int("precomputed_pairs", in.Overlay.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	if k := in.Matrix.LengthMismatches(); k > 0 {
		cmdutil.Warnf(log, "%d of %d rows differ in length from %q; pairs are compared up to the shorter row", k, n, in.Matrix.Row(0).ID)
	}

	threads := runutil.EffectiveThreads(o.Threads)
	for _, w := range runutil.ValidateRun(n, threads, o.Mode) {
		cmdutil.Warnf(log, "%s", w)
	}

	// ---- compute + write ----
	out, err := fileio.Create(o.Output, stdout)
	if err != nil {
		return fail(log, err)
	}
	eng := engine.New(engine.Config{MaxDist: o.MaxDist, Mode: o.Mode, Threads: threads})
	log.Debug("engine configured",
		zap.Int("threads", threads),
		zap.Int("chunk_size", engine.ChunkSize(n, threads)),
		zap.Any("maxdist", o.MaxDist),
	)

	start = time.Now()
	cctx, span := tracer.Start(ctx, "compute")
	span.SetAttributes(attribute.Int("samples", n), attribute.Int("threads", threads))

	inCh, writeErr := writers.StartDistanceWriter(out, o.Format, writers.Options{Sep: o.OutputSep, Samples: n}, threads*4)
	var (
		werr    error
		wreturn bool
	)
	total, perr := cmdutil.RunStream(cctx, eng, in, func(r engine.Record) error {
		select {
		case inCh <- r:
			return nil
		case werr = <-writeErr:
			wreturn = true
			return errWriterStopped
		case <-cctx.Done():
			return cctx.Err()
		}
	})
	close(inCh)
	if !wreturn {
		werr = <-writeErr
	}
	cerr := out.Close()

	st := eng.Stats()
	span.SetAttributes(attribute.Int64("pairs", total), attribute.Int64("overlay_hits", st.OverlayHits))
	span.End()
	mc.ObserveStage("compute", time.Since(start))
	mc.ObserveStats(st)

	code := finish(log, werr, cerr, perr)
	if code == errs.ExitOK {
		log.Info("distances written",
			zap.Int64("pairs", total),
			zap.Int64("overlay_hits", st.OverlayHits),
			zap.Int64("truncated", st.Truncated),
			zap.Int64("chunks", st.Chunks),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	if o.MetricsFile != "" {
		if err := mc.WriteTextfile(o.MetricsFile, time.Now()); err != nil {
			cmdutil.Warnf(log, "metrics file: %v", err)
		}
	}
	return code
}

// finish maps the writer, close and pipeline errors to an exit code. A
// reader that went away (`| head`) is a clean exit.
func finish(log *zap.Logger, werr, cerr, perr error) int {
	if writers.IsBrokenPipe(werr) || writers.IsBrokenPipe(cerr) {
		return errs.ExitOK
	}
	if werr != nil {
		return fail(log, errs.Wrap(werr, errs.TypeIO, "write output"))
	}
	if perr != nil && !errors.Is(perr, errWriterStopped) {
		if errors.Is(perr, context.Canceled) {
			log.Warn("canceled; output is incomplete")
			return errs.ExitCanceled
		}
		log.Warn("run failed after output started; output is incomplete")
		return fail(log, perr)
	}
	if cerr != nil {
		return fail(log, errs.Wrap(cerr, errs.TypeIO, "close output"))
	}
	return errs.ExitOK
}

// fail logs err with its category and details and returns its exit code.
func fail(log *zap.Logger, err error) int {
	if errors.Is(err, context.Canceled) {
		log.Warn("canceled")
		return errs.ExitCanceled
	}
	fields := []zap.Field{zap.Error(err), zap.String("category", string(errs.TypeOf(err)))}
	for k, v := range errs.DetailsOf(err) {
		fields = append(fields, zap.Any(k, v))
	}
	log.Error("distle failed", fields...)
	return errs.ExitCode(err)
}
