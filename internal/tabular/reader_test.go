package tabular

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/symbol"
)

const chewbbaca = "FILE\tlocus1\tlocus2\tlocus3\n" +
	"s0\t1\t2\t3\r\n" +
	"\n" +
	"s1\t1\tLNF\tINF-4\n" +
	"s2\t-\t2\t\n"

func TestReadMatrix_Alleles(t *testing.T) {
	m, err := ReadMatrix(context.Background(), strings.NewReader(chewbbaca), Options{
		Sep: '\t', SkipHeader: true, Parser: symbol.Parser{Kind: symbol.KindAllele},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s0", "s1", "s2"}, m.IDs())
	assert.Equal(t, symbol.Alleles{1, 2, 3}, m.Row(0).Seq)
	assert.Equal(t, symbol.Alleles{1, 0, 4}, m.Row(1).Seq)
	assert.Equal(t, symbol.Alleles{0, 2, 0}, m.Row(2).Seq)
}

func TestReadMatrix_HeaderNotSkipped(t *testing.T) {
	m, err := ReadMatrix(context.Background(), strings.NewReader(chewbbaca), Options{
		Sep: '\t', Parser: symbol.Parser{Kind: symbol.KindAllele},
	})
	require.NoError(t, err)
	assert.Equal(t, "FILE", m.Row(0).ID)
	assert.Equal(t, symbol.Alleles{0, 0, 0}, m.Row(0).Seq)
}

func TestReadMatrix_Digests(t *testing.T) {
	in := "a,6bc8d04609de559621859873ef301f221cf5d991,-\nb,zz,1e354c3d41dc0d3c403db19f22de23299a33a1c8\n"
	m, err := ReadMatrix(context.Background(), strings.NewReader(in), Options{
		Sep: ',', Parser: symbol.Parser{Kind: symbol.KindDigest},
	})
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	d, err := symbol.Distance(m.Row(0).Seq, m.Row(1).Seq, symbol.Unbounded)
	require.NoError(t, err)
	assert.Equal(t, 0, d)
}

func TestReadMatrix_MissingID(t *testing.T) {
	_, err := ReadMatrix(context.Background(), strings.NewReader("a\t1\n\t2\n"), Options{
		Sep: '\t', Parser: symbol.Parser{Kind: symbol.KindAllele},
	})
	require.Error(t, err)
	assert.Equal(t, errs.TypeStructural, errs.TypeOf(err))
	assert.Equal(t, 2, errs.DetailsOf(err)["line"])
}

func TestReadMatrix_Strict(t *testing.T) {
	_, err := ReadMatrix(context.Background(), strings.NewReader("a\t1\nb\t1O\n"), Options{
		Sep: '\t', Parser: symbol.Parser{Kind: symbol.KindAllele, Strict: true},
	})
	require.Error(t, err)
	assert.Equal(t, errs.TypeParse, errs.TypeOf(err))
	assert.ErrorIs(t, err, symbol.ErrMalformedToken)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadMatrix_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadMatrix(ctx, strings.NewReader("a\t1\n"), Options{Sep: '\t', Parser: symbol.Parser{Kind: symbol.KindAllele}})
	assert.ErrorIs(t, err, context.Canceled)
}
