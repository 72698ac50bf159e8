package cmdutil

import (
	"context"

	"github.com/KHajji/distle/internal/engine"
	"github.com/KHajji/distle/internal/pipeline"
)

// RunStream runs the shared pipeline and streams records via send.
// It returns the number of records sent and the first error encountered.
func RunStream(
	ctx context.Context,
	comp pipeline.Computer,
	in pipeline.Inputs,
	send func(engine.Record) error,
) (int64, error) {
	var total int64
	err := pipeline.ForEachRecord(ctx, comp, in, func(r engine.Record) error {
		if err := send(r); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, err
}
