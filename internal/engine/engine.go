package engine

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/KHajji/distle/internal/matrix"
	"github.com/KHajji/distle/internal/symbol"
)

// Config controls one engine.
type Config struct {
	MaxDist *int // early-stop maximum; nil (or negative) means unbounded
	Mode    Mode // LowerTriangle or Full
	Threads int  // concurrent rows per chunk; <1 means GOMAXPROCS
}

// Record is one emitted pair.
type Record struct {
	A, B     string
	Distance int
}

// Lookup is a precomputed distance source. *overlay.Overlay satisfies it.
type Lookup interface {
	Lookup(a, b string) (int, bool)
}

// Stats describes the last run.
type Stats struct {
	Pairs       int64 // records emitted
	OverlayHits int64 // pairs resolved from the Lookup
	Computed    int64 // pairs resolved by symbol comparison
	Truncated   int64 // computed pairs whose count reached MaxDist
	Chunks      int64
	ChunkSize   int
}

type Engine struct {
	cfg Config
	max int // symbol.Unbounded or the early-stop maximum

	pairs, hits, computed, truncated, chunks atomic.Int64
	chunkSize                                atomic.Int64
}

// MaxDist returns a bounded maximum for Config.MaxDist.
func MaxDist(d int) *int { return &d }

func New(c Config) *Engine {
	max := symbol.Unbounded
	if c.MaxDist != nil && *c.MaxDist >= 0 {
		max = *c.MaxDist
	}
	if c.Threads < 1 {
		c.Threads = runtime.GOMAXPROCS(0)
	}
	return &Engine{cfg: c, max: max}
}

// Stats returns a snapshot of the counters of the current or last run.
func (e *Engine) Stats() Stats {
	return Stats{
		Pairs:       e.pairs.Load(),
		OverlayHits: e.hits.Load(),
		Computed:    e.computed.Load(),
		Truncated:   e.truncated.Load(),
		Chunks:      e.chunks.Load(),
		ChunkSize:   int(e.chunkSize.Load()),
	}
}

func (e *Engine) reset(chunk int) {
	e.pairs.Store(0)
	e.hits.Store(0)
	e.computed.Store(0)
	e.truncated.Store(0)
	e.chunks.Store(0)
	e.chunkSize.Store(int64(chunk))
}

// ForEach computes every pair of m for the configured mode and calls visit
// for each record in order. ov may be nil.
//
// Chunks run one after another; the rows of a chunk run concurrently and
// their records are held until the whole chunk is done. The first visit
// error or context cancellation stops the run and is returned.
//
// Rows of different kinds inside m panic: Matrix.Add rejects them, so
// reaching the comparison means the matrix was built wrong.
func (e *Engine) ForEach(ctx context.Context, m *matrix.Matrix, ov Lookup, visit func(Record) error) error {
	rows := m.Rows()
	n := len(rows)
	cs := ChunkSize(n, e.cfg.Threads)
	e.reset(cs)

	for start := 0; start < n; start += cs {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + cs
		if end > n {
			end = n
		}
		batch, err := e.chunk(ctx, rows, start, end, ov)
		if err != nil {
			return err
		}
		e.chunks.Add(1)
		for _, recs := range batch {
			for _, r := range recs {
				if err := visit(r); err != nil {
					return err
				}
				e.pairs.Add(1)
			}
		}
	}
	return ctx.Err()
}

// Stream runs ForEach in a goroutine. The record channel is closed when
// the run ends; the error channel then yields at most one error. Callers
// must drain records or cancel ctx.
func (e *Engine) Stream(ctx context.Context, m *matrix.Matrix, ov Lookup, buf int) (<-chan Record, <-chan error) {
	out := make(chan Record, buf)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(out)
		err := e.ForEach(ctx, m, ov, func(r Record) error {
			select {
			case out <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errc <- err
		}
	}()
	return out, errc
}

func (e *Engine) chunk(ctx context.Context, rows []matrix.Row, start, end int, ov Lookup) ([][]Record, error) {
	batch := make([][]Record, end-start)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Threads)
	for i := start; i < end; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch[i-start] = e.row(rows, i, ov)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}

// row returns the records of outer index i in j-ascending order.
func (e *Engine) row(rows []matrix.Row, i int, ov Lookup) []Record {
	hi := i
	if e.cfg.Mode == Full {
		hi = len(rows)
	}
	a := rows[i]
	out := make([]Record, 0, hi)
	var hits, computed, truncated int64
	for j := 0; j < hi; j++ {
		b := rows[j]
		d, hit := e.pair(a, b, ov)
		switch {
		case hit:
			hits++
		case e.max >= 0 && d >= e.max:
			computed++
			truncated++
		default:
			computed++
		}
		out = append(out, Record{A: a.ID, B: b.ID, Distance: d})
	}
	e.hits.Add(hits)
	e.computed.Add(computed)
	e.truncated.Add(truncated)
	return out
}

// pair resolves one distance; hit reports an overlay value.
func (e *Engine) pair(a, b matrix.Row, ov Lookup) (d int, hit bool) {
	if ov != nil {
		if d, ok := ov.Lookup(a.ID, b.ID); ok {
			return d, true
		}
	}
	d, err := symbol.Distance(a.Seq, b.Seq, e.max)
	if err != nil {
		panic(err)
	}
	return d, false
}
