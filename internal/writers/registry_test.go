package writers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KHajji/distle/internal/engine"
)

func TestUnknownDistanceFormatError(t *testing.T) {
	var b bytes.Buffer
	in, done := StartDistanceWriter(&b, "nope-format", Options{Sep: '\t'}, 1)
	in <- engine.Record{A: "a", B: "b"}
	in <- engine.Record{A: "a", B: "c"}
	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown distance format "nope-format"`)
	close(in)
	assert.Zero(t, b.Len())
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{FormatJSONL, FormatPhylip, FormatTabular}, Formats())
}
