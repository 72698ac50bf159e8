// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KHajji/distle/internal/app"
	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/fileio"
)

const alignment = ">a first\nACGT\n>b\nACGG\n>c\nACNT\n"

func write(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, argv ...string) result {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.RunIO(context.Background(), argv, strings.NewReader(stdin), &out, &errBuf)
	return result{code: code, stdout: out.String(), stderr: errBuf.String()}
}

func TestEndToEnd_Tabular(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	r := run(t, "", "-q", fa, "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "b\ta\t1\nc\ta\t0\nc\tb\t1\n", r.stdout)
}

func TestEndToEnd_PhylipFull(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	r := run(t, "", "-q", "-o", "phylip", "-m", "full", "--output-sep", " ", fa, "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "3\na 0 1 0\nb 1 0 1\nc 0 1 0\n", r.stdout)
}

func TestEndToEnd_PhylipLowerTriangle(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	r := run(t, "", "-q", "-o", "phylip", fa, "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "3\na\nb\t1\nc\t0\t1\n", r.stdout)
}

func TestEndToEnd_CgmlstStdinToGzip(t *testing.T) {
	table := "FILE,l1,l2,l3\ns0,1,2,3\ns1,1,0,4\ns2,LNF,2,3\n"
	out := filepath.Join(t.TempDir(), "dist.tsv.gz")
	r := run(t, table, "-q", "-i", "cgmlst", "--input-sep", ",", "-s", "-", out)
	require.Equal(t, 0, r.code, r.stderr)

	rc, err := fileio.Open(out, nil)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "s1\ts0\t1\ns2\ts0\t0\ns2\ts1\t1\n", string(b))
}

func TestEndToEnd_PrecomputedOverrides(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	pre := write(t, "pre.tsv", "a\tb\t42\n")
	r := run(t, "", "-q", fa, "-", pre)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "b\ta\t42\nc\ta\t0\nc\tb\t1\n", r.stdout)
}

func TestEndToEnd_JSONL(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	r := run(t, "", "-q", "-o", "jsonl", "-d", "1", fa, "-")
	require.Equal(t, 0, r.code, r.stderr)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"id_a":"b","id_b":"a","distance":1}`, lines[0])
}

func TestEndToEnd_ZeroMaxDist(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	r := run(t, "", "-q", "-d", "0", fa, "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "b\ta\t0\nc\ta\t0\nc\tb\t0\n", r.stdout)
}

func TestEndToEnd_DeviceOutput(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	r := run(t, "", "-q", fa, os.DevNull)
	assert.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stderr)
}

func TestParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&sb, "s%d", i)
		for k := 0; k < 20; k++ {
			fmt.Fprintf(&sb, "\t%d", rng.Intn(3))
		}
		sb.WriteByte('\n')
	}
	table := write(t, "alleles.tsv", sb.String())

	serial := run(t, "", "-q", "-i", "cgmlst", "-t", "1", "-d", "15", table, "-")
	parallel := run(t, "", "-q", "-i", "cgmlst", "-t", "8", "-d", "15", table, "-")
	require.Equal(t, 0, serial.code, serial.stderr)
	require.Equal(t, 0, parallel.code, parallel.stderr)
	assert.Equal(t, serial.stdout, parallel.stdout)
	assert.Equal(t, 300*299/2, strings.Count(serial.stdout, "\n"))
}

func TestExitCodes(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	noID := write(t, "noid.tsv", "a\t1\n\t2\n")
	malformed := write(t, "bad.tsv", "a\t1\nb\tx1\n")

	tests := []struct {
		name string
		argv []string
		code int
		msg  string
	}{
		{"usage", []string{fa}, errs.ExitUsage, "expected <input> <output>"},
		{"bad format", []string{"-o", "csv", fa, "-"}, errs.ExitUsage, "--output-format"},
		{"missing input", []string{filepath.Join(t.TempDir(), "nope.fa"), "-"}, errs.ExitIO, "open input"},
		{"missing id", []string{"-i", "cgmlst", noID, "-"}, errs.ExitInput, "missing ID field"},
		{"strict", []string{"-i", "cgmlst", "--strict", malformed, "-"}, errs.ExitInput, "malformed token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, "", tt.argv...)
			assert.Equal(t, tt.code, r.code)
			assert.Contains(t, r.stderr, tt.msg)
		})
	}

	r := run(t, "", "-q", "-i", "cgmlst", malformed, "-")
	assert.Equal(t, 0, r.code, "lenient parsing treats the token as missing")
	assert.Equal(t, "b\ta\t0\n", r.stdout)
}

func TestHelpAndVersion(t *testing.T) {
	r := run(t, "")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Usage:")

	r = run(t, "", "--version")
	assert.Equal(t, 0, r.code)
	assert.True(t, strings.HasPrefix(r.stdout, "distle version "))
}

func TestLoggingMetricsAndTrace(t *testing.T) {
	fa := write(t, "in.fa", ">a\nACGT\n>b\nACG\n")
	prom := filepath.Join(t.TempDir(), "distle.prom")
	r := run(t, "", "--log-format", "json", "--metrics-file", prom, "--trace", fa, "-")
	require.Equal(t, 0, r.code, r.stderr)

	assert.Contains(t, r.stderr, `"run_id"`)
	assert.Contains(t, r.stderr, "differ in length")
	assert.Contains(t, r.stderr, `"Name":"compute"`)

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(b), `distle_pairs_total{input_format="fasta"} 1`)
	assert.Contains(t, string(b), `distle_samples{input_format="fasta"} 2`)
}

func TestCanceled_Exit130(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := app.RunIO(ctx, []string{"-q", fa, "-"}, nil, io.Discard, io.Discard)
	assert.Equal(t, errs.ExitCanceled, code)
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestBrokenPipe_Exit0(t *testing.T) {
	fa := write(t, "in.fa", alignment)
	code := app.RunIO(context.Background(), []string{"-q", fa, "-"}, nil, brokenPipe{}, io.Discard)
	assert.Equal(t, 0, code)
}
