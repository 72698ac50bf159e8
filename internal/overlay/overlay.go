// Package overlay holds precomputed distances that the engine uses instead
// of comparing rows.
package overlay

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type key struct{ a, b string }

// Overlay maps an unordered sample pair to a distance. Both orders are
// stored, so lookups are direction-agnostic. It is safe for concurrent
// reads once built.
type Overlay struct {
	m map[key]int
}

// New returns an empty overlay.
func New() *Overlay { return &Overlay{m: make(map[key]int)} }

// Insert stores d for (a,b) and (b,a). Later inserts win.
func (o *Overlay) Insert(a, b string, d int) {
	o.m[key{a, b}] = d
	o.m[key{b, a}] = d
}

// Lookup returns the stored distance for the pair in either order.
// A nil overlay has no entries.
func (o *Overlay) Lookup(a, b string) (int, bool) {
	if o == nil {
		return 0, false
	}
	d, ok := o.m[key{a, b}]
	return d, ok
}

// Len returns the number of stored ordered keys (two per distinct pair,
// one for a self pair).
func (o *Overlay) Len() int {
	if o == nil {
		return 0
	}
	return len(o.m)
}

// Load reads "a<sep>b<sep>distance" lines, the same layout the tabular
// writer produces. Blank lines are skipped; extra fields are ignored.
func Load(r io.Reader, sep rune) (*Overlay, error) {
	o := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := strings.SplitN(line, string(sep), 4)
		if f[0] == "" {
			return nil, fmt.Errorf("precomputed line %d: missing first id", ln)
		}
		if len(f) < 2 || f[1] == "" {
			return nil, fmt.Errorf("precomputed line %d: missing second id", ln)
		}
		if len(f) < 3 {
			return nil, fmt.Errorf("precomputed line %d: missing distance", ln)
		}
		d, err := strconv.Atoi(strings.TrimSpace(f[2]))
		if err != nil || d < 0 {
			return nil, fmt.Errorf("precomputed line %d: bad distance %q", ln, f[2])
		}
		o.Insert(f[0], f[1], d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("precomputed scan: %w", err)
	}
	return o, nil
}
