// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/matrix"
	"github.com/KHajji/distle/internal/symbol"
)

// Record is one FASTA entry: header ID and the concatenated sequence.
type Record struct {
	ID  string
	Seq []byte
}

const maxLine = 64 * 1024 * 1024 // allow very long single-line alignments (64 MiB)

// Stream scans FASTA from r and calls emit once per record. Sequence lines
// are whitespace-trimmed and joined. Cancellation via ctx is honoured
// between lines. Return a non-nil error from emit to stop early.
//
// Sequence data before the first header and a header without an
// identifier are structural errors.
func Stream(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id     string
		inRec  bool
		seq    = make([]byte, 0, 1<<16)
		lineNo int
	)
	flush := func() error {
		if !inRec {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id = parseHeaderID(line[1:])
			if id == "" {
				return errs.New(errs.TypeStructural, "fasta header without identifier").WithDetail("line", lineNo)
			}
			inRec = true
			seq = seq[:0]
			continue
		}
		if !inRec {
			return errs.New(errs.TypeStructural, "fasta sequence data before first header").WithDetail("line", lineNo)
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return errs.Wrap(err, errs.TypeIO, "fasta scan")
	}
	return flush()
}

// ReadMatrix parses every record of r into a matrix of p.Kind, which must
// be a sequence kind.
func ReadMatrix(ctx context.Context, r io.Reader, p symbol.Parser) (*matrix.Matrix, error) {
	if !p.Kind.IsSequence() {
		return nil, errs.Newf(errs.TypeConfig, "input format %s cannot be read from FASTA", p.Kind)
	}
	m := matrix.New(p.Kind, 64)
	err := Stream(ctx, r, func(rec Record) error {
		seq, err := p.ParseBytes(rec.Seq)
		if err != nil {
			return err
		}
		return m.Add(rec.ID, seq)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// parseHeaderID returns the first whitespace-delimited token of a header.
func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
