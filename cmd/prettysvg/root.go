// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/prettysvg/pkg/config"
	"github.com/walteh/prettysvg/pkg/log"
	"github.com/walteh/prettysvg/pkg/markup"
	"github.com/walteh/prettysvg/pkg/rewrite"
	"github.com/walteh/prettysvg/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	errNoInput = errors.Base("No input file!")
	errUsage   = errors.Base("usage")
)

// rootOpts holds the flag values of the root command
type rootOpts struct {
	configFile string
	debug      bool
	dryRun     bool
	longRuns   string
	sequential bool
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, fsys afero.Fs, stdout, stderr io.Writer) int {
	console := log.New(stderr, zerolog.Nop())
	ctx = log.NewContext(ctx, console)

	cmd := newRootCmd(fsys, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNoInput):
		fmt.Fprintln(stdout, err.Error())
		return exitUsage
	case errors.Is(err, errUsage):
		console.Error(err.Error())
		return exitUsage
	default:
		console.Error(err.Error())
		return exitFailure
	}
}

// singleFile accepts at most one positional argument
func singleFile(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.Errorf("%w: accepts at most one file, received %d", errUsage, len(args))
	}
	return nil
}

// newRootCmd creates the prettysvg command
func newRootCmd(fsys afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "prettysvg [flags] <file>",
		Short: "Turn zwj/zwnj markers in exported SVG into tspan styling",
		Long: `prettysvg rewrites one SVG file in place.

Runs of &zwj; open a styled span and &zwnj; closes it:

  &zwj;                    subscript
  &zwj;&zwj;               superscript
  &zwj;&zwj;&zwj;          italic
  &zwj;&zwj;&zwj;&zwj;     bold

The original file is overwritten and no backup is kept.`,
		Args:          singleFile,
		Version:       GetVersionInfo().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errNoInput
			}
			return opts.rewrite(cmd.Context(), fsys, args[0], stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(FormatVersion())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Errorf("%w: %s", errUsage, err.Error())
	})

	addRootFlags(cmd, opts)
	return cmd
}

// addRootFlags adds the flags of the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "optional rules file (.yaml, .json or .hcl)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "print the result to stdout instead of rewriting the file")
	cmd.Flags().StringVar(&opts.longRuns, "long-runs", "", "runs of more than four &zwj;: split or reject (overrides config)")
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "use ordered replacement passes instead of the single scan")
}

// setupLogging builds the zerolog logger for this invocation
func setupLogging(debug bool, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// loadConfig loads the rules file if one was given and applies flag overrides
func (o *rootOpts) loadConfig(ctx context.Context, fsys afero.Fs) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(ctx, fsys, o.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if o.longRuns != "" {
		cfg.LongRuns = o.longRuns
		if err := cfg.Validate(); err != nil {
			return nil, errors.Errorf("--long-runs: %w", err)
		}
	}

	return cfg, nil
}

// replacer picks the engine and the rules it runs with
func (o *rootOpts) replacer(cfg *config.Config) (text.TextReplacer, []text.ReplacementRule, error) {
	if o.sequential {
		rules := append(markup.LegacyRules(cfg.Markers()), cfg.Rules()...)
		return text.NewSequentialReplacer(), rules, nil
	}

	r, err := markup.NewRewriter(cfg.Markers(), cfg.Policy())
	if err != nil {
		return nil, nil, errors.Errorf("creating rewriter: %w", err)
	}
	return r, cfg.Rules(), nil
}

// rewrite runs the in-place rewrite of path
func (o *rootOpts) rewrite(ctx context.Context, fsys afero.Fs, path string, stdout, stderr io.Writer) error {
	zlog := setupLogging(o.debug, stderr)
	ctx = zlog.WithContext(ctx)

	console := log.FromContext(ctx)
	if o.debug {
		console = log.New(stderr, zlog)
		ctx = log.NewContext(ctx, console)
	}

	console.Header(path)

	cfg, err := o.loadConfig(ctx, fsys)
	if err != nil {
		return err
	}
	if o.configFile != "" {
		console.Infof("using rules from %s", o.configFile)
	}
	zlog.Debug().Stringer("config", cfg).Bool("sequential", o.sequential).Msg("resolved configuration")

	replacer, rules, err := o.replacer(cfg)
	if err != nil {
		return err
	}

	result, err := rewrite.Rewrite(ctx, rewrite.Options{
		Fs:       fsys,
		Path:     path,
		Replacer: replacer,
		Rules:    rules,
		DryRun:   o.dryRun,
		Output:   stdout,
	})
	if err != nil {
		console.LogFileOperation(ctx, log.FileOperation{Path: path, Status: log.StatusFailed})
		return err
	}

	if !result.WasModified {
		console.Warningf("no markers found in %s", path)
	}

	status := log.StatusUnchanged
	switch {
	case o.dryRun:
		status = log.StatusDryRun
	case result.WasModified:
		status = log.StatusRewritten
	}

	console.LogFileOperation(ctx, log.FileOperation{
		Path:         path,
		Status:       status,
		Replacements: result.ReplacementCount,
		Counts:       result.Counts,
	})

	return nil
}
