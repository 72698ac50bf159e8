// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"github.com/KHajji/distle/internal/engine"
)

// Options carries what a layout needs besides the records.
type Options struct {
	Sep     rune // field separator
	Samples int  // row count of the matrix (phylip header)
}

// DistanceWriterFunc consumes in until it is closed or an error occurs.
type DistanceWriterFunc func(w io.Writer, in <-chan engine.Record, opt Options) error

// Writer registry (format → handler). Register in init() blocks of the
// layout files.
var DistanceWriters = map[string]DistanceWriterFunc{}

// RegisterDistance is idempotent last-wins.
func RegisterDistance(format string, fn DistanceWriterFunc) { DistanceWriters[format] = fn }

// Formats returns the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(DistanceWriters))
	for k := range DistanceWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteDistances dispatches to the registered writer for format.
func WriteDistances(format string, w io.Writer, in <-chan engine.Record, opt Options) error {
	fn, ok := DistanceWriters[format]
	if !ok {
		return fmt.Errorf("unknown distance format %q (no writer registered)", format)
	}
	return fn(w, in, opt)
}

// StartDistanceWriter spins up a writer goroutine. The error (or nil) is
// sent as soon as writing stops; remaining records are then drained so
// the producer never blocks.
func StartDistanceWriter(out io.Writer, format string, opt Options, bufSize int) (chan<- engine.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Record, bufSize)
	errCh := make(chan error, 1)

	go func() {
		errCh <- WriteDistances(format, out, in, opt)
		for range in {
		}
	}()

	return in, errCh
}
