// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/KHajji/distle/internal/cmdutil"
	"github.com/KHajji/distle/internal/engine"
	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/fileio"
	"github.com/KHajji/distle/internal/symbol"
	"github.com/KHajji/distle/internal/writers"
)

// ErrHelp is returned when help was printed instead of parsing a run.
var ErrHelp = errors.New("help requested")

// Options holds all resolved flags and arguments.
type Options struct {
	// Positional
	Input       string
	Output      string
	Precomputed string

	// Formats (raw names; Validate fills the parsed values)
	InputFormat  string
	OutputFormat string
	OutputMode   string
	Kind         symbol.Kind
	Mode         engine.Mode

	// Parsing
	InputSepRaw  string
	OutputSepRaw string
	InputSep     rune
	OutputSep    rune
	SkipHeader   bool
	Strict       bool

	// Engine
	MaxDist *int // nil unless --maxdist was given (flag, env or config)
	Threads int

	// Ambient
	Verbose     bool
	Quiet       bool
	LogFormat   string
	ConfigFile  string
	MetricsFile string
	Trace       bool

	Version bool
}

// Validate checks option combinations and parses the format names and
// separators.
func (o *Options) Validate() error {
	var err error
	if o.Kind, err = symbol.ParseKind(o.InputFormat); err != nil {
		return errs.Wrap(err, errs.TypeConfig, "--input-format")
	}
	if o.Mode, err = engine.ParseMode(o.OutputMode); err != nil {
		return errs.Wrap(err, errs.TypeConfig, "--output-mode")
	}
	if _, ok := writers.DistanceWriters[o.OutputFormat]; !ok {
		return errs.Newf(errs.TypeConfig, "invalid --output-format %q (want one of %v)", o.OutputFormat, writers.Formats())
	}
	if o.InputSep, err = ParseSep(o.InputSepRaw); err != nil {
		return errs.Wrap(err, errs.TypeConfig, "--input-sep")
	}
	if o.OutputSep, err = ParseSep(o.OutputSepRaw); err != nil {
		return errs.Wrap(err, errs.TypeConfig, "--output-sep")
	}
	switch {
	case o.MaxDist != nil && *o.MaxDist < 0:
		return errs.New(errs.TypeConfig, "--maxdist must be ≥ 0")
	case o.Threads < 0:
		return errs.New(errs.TypeConfig, "--threads must be ≥ 0")
	case o.Verbose && o.Quiet:
		return errs.New(errs.TypeConfig, "--verbose conflicts with --quiet")
	case o.Input == fileio.Stdio && o.Precomputed == fileio.Stdio:
		return errs.New(errs.TypeConfig, "input and precomputed distances cannot both be read from stdin")
	case o.LogFormat != cmdutil.LogConsole && o.LogFormat != cmdutil.LogJSON:
		return errs.Newf(errs.TypeConfig, "invalid --log-format %q", o.LogFormat)
	}
	return nil
}

// LogLevel maps --verbose / --quiet to a zap level name.
func (o Options) LogLevel() string {
	switch {
	case o.Verbose:
		return "debug"
	case o.Quiet:
		return "warn"
	}
	return "info"
}

// ParseSep accepts a single character. The two-character escape `\t`
// and the word "tab" mean a tab, so the separator survives shells and
// YAML without quoting tricks.
func ParseSep(s string) (rune, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) || r == utf8.RuneError || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	return r, nil
}
