package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KHajji/distle/internal/cmdutil"
	"github.com/KHajji/distle/internal/config"
	"github.com/KHajji/distle/internal/engine"
	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/symbol"
	"github.com/KHajji/distle/internal/writers"
)

// Flag names double as config-file keys and, upper-cased with a DISTLE_
// prefix, as environment variables.
const (
	KeyInputFormat  = "input-format"
	KeyOutputFormat = "output-format"
	KeyOutputMode   = "output-mode"
	KeyMaxDist      = "maxdist"
	KeyInputSep     = "input-sep"
	KeyOutputSep    = "output-sep"
	KeySkipHeader   = "skip-header"
	KeyThreads      = "threads"
	KeyStrict       = "strict"
	KeyVerbose      = "verbose"
	KeyQuiet        = "quiet"
	KeyLogFormat    = "log-format"
	KeyMetricsFile  = "metrics-file"
	KeyTrace        = "trace"
	KeyConfig       = "config"
	KeyVersion      = "version"

	EnvPrefix = "DISTLE"
)

// ConfigKeys are the keys accepted in a --config file.
var ConfigKeys = []string{
	KeyInputFormat, KeyOutputFormat, KeyOutputMode, KeyMaxDist,
	KeyInputSep, KeyOutputSep, KeySkipHeader, KeyThreads, KeyStrict,
	KeyVerbose, KeyQuiet, KeyLogFormat, KeyMetricsFile, KeyTrace,
}

const long = `distle computes all-pairs Hamming distances between samples.

Input is a FASTA alignment (fasta, fasta-all) or a delimited allele table
(cgmlst, cgmlst-hash) with the sample ID in the first column. Use '-' for
stdin/stdout; .gz, .zst and .lz4 files are handled transparently.

An optional third argument names precomputed distances in the tabular
output layout; those pairs are taken as-is instead of being computed.

Every flag can also be set as DISTLE_<FLAG> (e.g. DISTLE_MAXDIST=10) or in
a YAML --config file. Flags win over the environment, which wins over the
config file.`

const examples = `  # lower-triangle distances between aligned genomes
  distle aln.fasta dist.tsv

  # square Phylip matrix from a gzipped chewBBACA table
  distle -i cgmlst -s -o phylip -m full alleles.tsv.gz dist.phy

  # reuse yesterday's distances, only compute the new samples
  distle -i cgmlst -s alleles.tsv dist.new.tsv dist.old.tsv

  # cluster-only run: stop counting at 20 differences
  distle -d 20 -t 16 aln.fasta.zst - | gzip > dist.tsv.gz`

// NewCommand returns the root command. run receives the validated options.
func NewCommand(run func(Options) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "distle [flags] <input> <output> [precomputed]",
		Short:         "All-pairs distance matrices for alignments and allele tables",
		Long:          long,
		Example:       examples,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			if ver, _ := c.Flags().GetBool(KeyVersion); ver {
				return run(Options{Version: true})
			}
			opt, err := resolve(v, args)
			if err != nil {
				return err
			}
			return run(opt)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errs.Wrap(err, errs.TypeConfig, "flags")
	})

	f := cmd.Flags()
	f.SortFlags = false
	f.StringP(KeyInputFormat, "i", symbol.NameFasta, "input format: "+strings.Join(symbol.KindNames(), " | "))
	f.StringP(KeyOutputFormat, "o", writers.FormatTabular, "output format: "+strings.Join(writers.Formats(), " | "))
	f.StringP(KeyOutputMode, "m", engine.ModeNameLowerTriangle, "pairs to emit: "+engine.ModeNameLowerTriangle+" | "+engine.ModeNameFull)
	f.IntP(KeyMaxDist, "d", 0, "stop counting at this distance (unset = exact)")
	f.String(KeyInputSep, `\t`, "input field separator (tabular inputs)")
	f.String(KeyOutputSep, `\t`, "output field separator (also used for precomputed distances)")
	f.BoolP(KeySkipHeader, "s", false, "skip the first line of a tabular input")
	f.IntP(KeyThreads, "t", 0, "worker threads (0 = all CPUs)")
	f.Bool(KeyStrict, false, "fail on malformed allele or hash tokens instead of treating them as missing")
	f.BoolP(KeyVerbose, "v", false, "debug logging")
	f.BoolP(KeyQuiet, "q", false, "only log warnings and errors")
	f.String(KeyLogFormat, cmdutil.LogConsole, "log format: console | json")
	f.String(KeyConfig, "", "YAML config file")
	f.String(KeyMetricsFile, "", "write run metrics in Prometheus textfile format")
	f.Bool(KeyTrace, false, "write OpenTelemetry spans to stderr")
	f.Bool(KeyVersion, false, "print version and exit")

	f.VisitAll(func(fl *pflag.Flag) {
		if fl.Name != KeyVersion {
			_ = v.BindPFlag(fl.Name, fl)
		}
	})
	return cmd
}

func resolve(v *viper.Viper, args []string) (Options, error) {
	if path := v.GetString(KeyConfig); path != "" {
		m, err := config.Load(path, ConfigKeys)
		if err != nil {
			return Options{}, errs.Wrap(err, errs.TypeConfig, "--config")
		}
		if err := v.MergeConfigMap(m); err != nil {
			return Options{}, errs.Wrap(err, errs.TypeConfig, "--config")
		}
	}
	if len(args) < 2 || len(args) > 3 {
		return Options{}, errs.Newf(errs.TypeConfig, "expected <input> <output> [precomputed], got %d argument(s)", len(args))
	}

	o := Options{
		Input:        args[0],
		Output:       args[1],
		InputFormat:  v.GetString(KeyInputFormat),
		OutputFormat: v.GetString(KeyOutputFormat),
		OutputMode:   v.GetString(KeyOutputMode),
		InputSepRaw:  v.GetString(KeyInputSep),
		OutputSepRaw: v.GetString(KeyOutputSep),
		SkipHeader:   v.GetBool(KeySkipHeader),
		Strict:       v.GetBool(KeyStrict),
		Threads:      v.GetInt(KeyThreads),
		Verbose:      v.GetBool(KeyVerbose),
		Quiet:        v.GetBool(KeyQuiet),
		LogFormat:    v.GetString(KeyLogFormat),
		ConfigFile:   v.GetString(KeyConfig),
		MetricsFile:  v.GetString(KeyMetricsFile),
		Trace:        v.GetBool(KeyTrace),
	}
	if len(args) == 3 {
		o.Precomputed = args[2]
	}
	if v.IsSet(KeyMaxDist) {
		o.MaxDist = engine.MaxDist(v.GetInt(KeyMaxDist))
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// ParseArgs parses argv. Help and usage text go to out. With no arguments
// help is printed and ErrHelp returned.
func ParseArgs(argv []string, out io.Writer) (Options, error) {
	var (
		opt Options
		ran bool
	)
	cmd := NewCommand(func(o Options) error {
		opt, ran = o, true
		return nil
	})
	cmd.SetArgs(argv)
	cmd.SetOut(out)
	cmd.SetErr(out)

	if len(argv) == 0 {
		if err := cmd.Help(); err != nil {
			return opt, fmt.Errorf("help: %w", err)
		}
		return opt, ErrHelp
	}
	if err := cmd.Execute(); err != nil {
		return opt, err
	}
	if !ran {
		return opt, ErrHelp
	}
	return opt, nil
}
