// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"io"

	"go.uber.org/multierr"

	"github.com/KHajji/distle/internal/engine"
	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/fasta"
	"github.com/KHajji/distle/internal/fileio"
	"github.com/KHajji/distle/internal/matrix"
	"github.com/KHajji/distle/internal/overlay"
	"github.com/KHajji/distle/internal/symbol"
	"github.com/KHajji/distle/internal/tabular"
)

// Config controls input loading.
type Config struct {
	Input       string // path or "-"
	Precomputed string // optional path or "-"
	Kind        symbol.Kind
	Strict      bool // reject malformed allele/hash tokens
	InputSep    rune // tabular kinds only
	SkipHeader  bool // tabular kinds only
	OverlaySep  rune // precomputed file separator (the output separator)
}

// Inputs is everything the engine reads. Overlay is nil without a
// precomputed file.
type Inputs struct {
	Matrix  *matrix.Matrix
	Overlay *overlay.Overlay
}

// Computer is the minimal capability the pipeline needs.
// Any engine (including fakes in tests) can satisfy this.
type Computer interface {
	ForEach(ctx context.Context, m *matrix.Matrix, ov engine.Lookup, visit func(engine.Record) error) error
}

// Load reads the matrix and, if configured, the precomputed distances.
// stdin backs any "-" path.
func Load(ctx context.Context, cfg Config, stdin io.Reader) (Inputs, error) {
	m, err := LoadMatrix(ctx, cfg, stdin)
	if err != nil {
		return Inputs{}, err
	}
	var ov *overlay.Overlay
	if cfg.Precomputed != "" {
		if ov, err = LoadOverlay(cfg.Precomputed, cfg.OverlaySep, stdin); err != nil {
			return Inputs{}, err
		}
	}
	return Inputs{Matrix: m, Overlay: ov}, nil
}

// LoadMatrix picks the FASTA or tabular source by kind.
func LoadMatrix(ctx context.Context, cfg Config, stdin io.Reader) (m *matrix.Matrix, err error) {
	rc, err := fileio.Open(cfg.Input, stdin)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, errs.Wrap(rc.Close(), errs.TypeIO, "close input")) }()

	p := symbol.Parser{Kind: cfg.Kind, Strict: cfg.Strict}
	if cfg.Kind.IsSequence() {
		m, err = fasta.ReadMatrix(ctx, rc, p)
	} else {
		m, err = tabular.ReadMatrix(ctx, rc, tabular.Options{Sep: cfg.InputSep, SkipHeader: cfg.SkipHeader, Parser: p})
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// LoadOverlay reads "a<sep>b<sep>distance" lines.
func LoadOverlay(path string, sep rune, stdin io.Reader) (ov *overlay.Overlay, err error) {
	rc, err := fileio.Open(path, stdin)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, errs.Wrap(rc.Close(), errs.TypeIO, "close precomputed distances")) }()

	ov, err = overlay.Load(rc, sep)
	if err != nil {
		e := &errs.Error{Type: errs.TypeStructural, Message: "precomputed distances", Cause: err}
		return nil, e.WithDetail("path", path)
	}
	return ov, nil
}

// ForEachRecord streams every record of in through comp to visit. It
// returns the first error encountered (including context cancellation).
func ForEachRecord(ctx context.Context, comp Computer, in Inputs, visit func(engine.Record) error) error {
	var ov engine.Lookup
	if in.Overlay != nil {
		ov = in.Overlay
	}
	return comp.ForEach(ctx, in.Matrix, ov, visit)
}
