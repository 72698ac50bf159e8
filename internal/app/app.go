// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/KHajji/distle/internal/appcore"
	"github.com/KHajji/distle/internal/cli"
	"github.com/KHajji/distle/internal/cmdutil"
	"github.com/KHajji/distle/internal/errs"
	"github.com/KHajji/distle/internal/version"
	"github.com/KHajji/distle/internal/writers"
)

// RunIO parses argv and runs distle with explicit standard streams. It
// returns the process exit code.
func RunIO(parent context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := cli.ParseArgs(argv, stdout)
	if errors.Is(err, cli.ErrHelp) {
		return errs.ExitOK
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\nRun 'distle --help' for usage.\n", err)
		return errs.ExitCode(err)
	}

	if opts.Version {
		if _, e := fmt.Fprintf(stdout, "distle version %s\n", version.Version); e != nil && !writers.IsBrokenPipe(e) {
			_, _ = fmt.Fprintln(stderr, e)
			return errs.ExitIO
		}
		return errs.ExitOK
	}

	log, err := cmdutil.NewLogger(stderr, cmdutil.LogConfig{Level: opts.LogLevel(), Format: opts.LogFormat})
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return errs.ExitUsage
	}
	defer func() { _ = log.Sync() }()
	if opts.ConfigFile != "" {
		log.Debug("config file loaded", zap.String("path", opts.ConfigFile))
	}

	return appcore.Run(parent, stdin, stdout, stderr, log, appcore.Options{
		Input:       opts.Input,
		Output:      opts.Output,
		Precomputed: opts.Precomputed,
		Kind:        opts.Kind,
		Strict:      opts.Strict,
		InputSep:    opts.InputSep,
		SkipHeader:  opts.SkipHeader,
		Format:      opts.OutputFormat,
		Mode:        opts.Mode,
		OutputSep:   opts.OutputSep,
		MaxDist:     opts.MaxDist,
		Threads:     opts.Threads,
		MetricsFile: opts.MetricsFile,
		Trace:       opts.Trace,
	})
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	return RunIO(parent, argv, os.Stdin, stdout, stderr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
