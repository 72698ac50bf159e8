package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KHajji/distle/internal/engine"
	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/symbol"
)

func parse(t *testing.T, argv ...string) (Options, error) {
	t.Helper()
	var out bytes.Buffer
	return ParseArgs(argv, &out)
}

func TestParseArgs_Defaults(t *testing.T) {
	o, err := parse(t, "in.fa", "-")
	require.NoError(t, err)
	assert.Equal(t, "in.fa", o.Input)
	assert.Equal(t, "-", o.Output)
	assert.Empty(t, o.Precomputed)
	assert.Equal(t, symbol.KindNucleotide, o.Kind)
	assert.Equal(t, engine.LowerTriangle, o.Mode)
	assert.Equal(t, "tabular", o.OutputFormat)
	assert.Equal(t, '\t', o.InputSep)
	assert.Equal(t, '\t', o.OutputSep)
	assert.Nil(t, o.MaxDist)
	assert.Equal(t, "info", o.LogLevel())
}

func TestParseArgs_ExplicitZeroMaxDist(t *testing.T) {
	o, err := parse(t, "-d", "0", "in.fa", "-")
	require.NoError(t, err)
	require.NotNil(t, o.MaxDist)
	assert.Equal(t, 0, *o.MaxDist)

	t.Setenv("DISTLE_MAXDIST", "0")
	o, err = parse(t, "in.fa", "-")
	require.NoError(t, err)
	require.NotNil(t, o.MaxDist, "zero from the environment is still a maximum")
	assert.Equal(t, 0, *o.MaxDist)
}

func TestParseArgs_Flags(t *testing.T) {
	o, err := parse(t,
		"-i", "cgmlst", "-o", "phylip", "-m", "full", "-d", "5",
		"--input-sep", ",", "--output-sep", " ", "-s", "-t", "2", "--strict", "-q",
		"alleles.tsv", "out.phy", "pre.tsv",
	)
	require.NoError(t, err)
	assert.Equal(t, symbol.KindAllele, o.Kind)
	assert.Equal(t, "phylip", o.OutputFormat)
	assert.Equal(t, engine.Full, o.Mode)
	require.NotNil(t, o.MaxDist)
	assert.Equal(t, 5, *o.MaxDist)
	assert.Equal(t, ',', o.InputSep)
	assert.Equal(t, ' ', o.OutputSep)
	assert.True(t, o.SkipHeader)
	assert.True(t, o.Strict)
	assert.Equal(t, 2, o.Threads)
	assert.Equal(t, "pre.tsv", o.Precomputed)
	assert.Equal(t, "warn", o.LogLevel())
}

func TestParseArgs_Precedence(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "distle.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("maxdist: 3\noutput-format: jsonl\nthreads: 4\n"), 0o644))

	o, err := parse(t, "--config", cfg, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, o.MaxDist)
	assert.Equal(t, 3, *o.MaxDist)
	assert.Equal(t, "jsonl", o.OutputFormat)
	assert.Equal(t, 4, o.Threads)

	t.Setenv("DISTLE_MAXDIST", "7")
	t.Setenv("DISTLE_OUTPUT_FORMAT", "phylip")
	o, err = parse(t, "--config", cfg, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, o.MaxDist)
	assert.Equal(t, 7, *o.MaxDist, "env beats config")
	assert.Equal(t, "phylip", o.OutputFormat)
	assert.Equal(t, 4, o.Threads)

	o, err = parse(t, "--config", cfg, "-d", "9", "a", "b")
	require.NoError(t, err)
	require.NotNil(t, o.MaxDist)
	assert.Equal(t, 9, *o.MaxDist, "flag beats env")
}

func TestParseArgs_ConfigFromEnv(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "distle.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output-mode: full\n"), 0o644))
	t.Setenv("DISTLE_CONFIG", cfg)
	o, err := parse(t, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, engine.Full, o.Mode)
}

func TestParseArgs_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("colour: blue\n"), 0o644))

	tests := []struct {
		name string
		argv []string
		msg  string
	}{
		{"one arg", []string{"in.fa"}, "expected <input> <output>"},
		{"four args", []string{"a", "b", "c", "d"}, "got 4 argument(s)"},
		{"unknown flag", []string{"--nope", "a", "b"}, "unknown flag"},
		{"input format", []string{"-i", "vcf", "a", "b"}, "unknown input format"},
		{"output format", []string{"-o", "csv", "a", "b"}, "invalid --output-format"},
		{"mode", []string{"-m", "upper", "a", "b"}, "unknown output mode"},
		{"sep", []string{"--output-sep", "ab", "a", "b"}, "single character"},
		{"maxdist", []string{"-d", "-1", "a", "b"}, "--maxdist"},
		{"threads", []string{"-t", "-2", "a", "b"}, "--threads"},
		{"verbose quiet", []string{"-v", "-q", "a", "b"}, "conflicts"},
		{"two stdin", []string{"-", "out", "-"}, "both be read from stdin"},
		{"log format", []string{"--log-format", "xml", "a", "b"}, "--log-format"},
		{"config key", []string{"--config", bad, "a", "b"}, "unknown config keys: colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.argv...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, errs.ExitUsage, errs.ExitCode(err))
		})
	}
}

func TestParseArgs_HelpAndVersion(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseArgs(nil, &out)
	assert.ErrorIs(t, err, ErrHelp)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--input-format")

	out.Reset()
	_, err = ParseArgs([]string{"-h"}, &out)
	assert.ErrorIs(t, err, ErrHelp)
	assert.Contains(t, out.String(), "DISTLE_")

	o, err := ParseArgs([]string{"--version"}, &out)
	require.NoError(t, err)
	assert.True(t, o.Version)
}

func TestParseSep(t *testing.T) {
	tests := []struct {
		in   string
		want rune
		ok   bool
	}{
		{`\t`, '\t', true},
		{"\t", '\t', true},
		{"tab", '\t', true},
		{",", ',', true},
		{"é", 'é', true},
		{"", 0, false},
		{",,", 0, false},
		{"\n", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseSep(tt.in)
		if !tt.ok {
			assert.Error(t, err, "%q", tt.in)
			continue
		}
		require.NoError(t, err, "%q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
