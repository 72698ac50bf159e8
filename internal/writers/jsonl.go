// internal/writers/jsonl.go
package writers

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/KHajji/distle/internal/engine"
	"github.com/KHajji/distle/internal/jsonlutil"
	"github.com/KHajji/distle/pkg/api"
)

const FormatJSONL = "jsonl"

func init() { RegisterDistance(FormatJSONL, WriteJSONL) }

// ToAPIDistance maps an engine record to the v1 wire type.
func ToAPIDistance(r engine.Record) api.DistanceV1 {
	return api.DistanceV1{IDA: r.A, IDB: r.B, Distance: r.Distance}
}

func encodeDistance(enc *json.Encoder, r engine.Record) error {
	return enc.Encode(ToAPIDistance(r))
}

// WriteJSONL writes one DistanceV1 object per line. Sep and Samples are
// not used.
func WriteJSONL(w io.Writer, in <-chan engine.Record, _ Options) error {
	return jsonlutil.Copy(w, in, encodeDistance)
}
