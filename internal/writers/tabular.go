package writers

import (
	"bufio"
	"io"
	"strconv"

	"github.com/KHajji/distle/internal/engine"
)

const FormatTabular = "tabular"

func init() { RegisterDistance(FormatTabular, WriteTabular) }

// WriteTabular writes one "a<sep>b<sep>d" line per record, in input order.
func WriteTabular(w io.Writer, in <-chan engine.Record, opt Options) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	num := make([]byte, 0, 20)
	for r := range in {
		bw.WriteString(r.A)
		bw.WriteRune(opt.Sep)
		bw.WriteString(r.B)
		bw.WriteRune(opt.Sep)
		num = strconv.AppendInt(num[:0], int64(r.Distance), 10)
		num = append(num, '\n')
		if _, err := bw.Write(num); err != nil {
			return err
		}
	}
	return bw.Flush()
}
