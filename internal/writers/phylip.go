package writers

import (
	"bufio"
	"io"
	"strconv"

	"github.com/KHajji/distle/internal/engine"
)

const FormatPhylip = "phylip"

func init() { RegisterDistance(FormatPhylip, WritePhylip) }

// WritePhylip writes the sample count, then one line per run of records
// sharing A: the identifier followed by <sep><distance> per record.
//
// In lower-triangle order the first sample never appears as A, so when
// the first record has A != B its B gets a line of its own first. That
// yields the staircase where line k holds k distances.
func WritePhylip(w io.Writer, in <-chan engine.Record, opt Options) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	num := make([]byte, 0, 20)
	bw.Write(strconv.AppendInt(num[:0], int64(opt.Samples), 10))

	var cur string
	first := true
	for r := range in {
		switch {
		case first:
			first = false
			if r.A != r.B {
				bw.WriteByte('\n')
				bw.WriteString(r.B)
			}
			fallthrough
		case r.A != cur:
			cur = r.A
			bw.WriteByte('\n')
			bw.WriteString(r.A)
		}
		bw.WriteRune(opt.Sep)
		if _, err := bw.Write(strconv.AppendInt(num[:0], int64(r.Distance), 10)); err != nil {
			return err
		}
	}
	bw.WriteByte('\n')
	return bw.Flush()
}
