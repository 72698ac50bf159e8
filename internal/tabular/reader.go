// Package tabular reads delimited allele tables: one sample per line, the
// identifier in the first field and one call per remaining field.
package tabular

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/matrix"
	"github.com/KHajji/distle/internal/symbol"
)

const maxLine = 64 * 1024 * 1024

// Options controls table parsing.
type Options struct {
	Sep        rune
	SkipHeader bool // drop the first line (chewBBACA locus header)
	Parser     symbol.Parser
}

// ReadMatrix parses every non-blank line of r into a row.
//
// A missing identifier is a structural error. Token content never fails
// unless the parser is strict.
func ReadMatrix(ctx context.Context, r io.Reader, opt Options) (*matrix.Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	sep := string(opt.Sep)
	m := matrix.New(opt.Parser.Kind, 64)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if lineNo == 1 && opt.SkipHeader {
			continue
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, sep)
		id := fields[0]
		if id == "" {
			return nil, errs.New(errs.TypeStructural, "missing ID field at the start of the line").WithDetail("line", lineNo)
		}
		seq, err := opt.Parser.ParseFields(fields[1:])
		if err != nil {
			return nil, errs.Wrap(err, errs.TypeParse, "line "+strconv.Itoa(lineNo))
		}
		if err := m.Add(id, seq); err != nil {
			return nil, errs.Wrap(err, errs.TypeInternal, "add row")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(err, errs.TypeIO, "table scan")
	}
	return m, nil
}
