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

package rewrite

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/prettysvg/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when the target file does not exist.
	ErrNotFound = errors.Base("file not found")

	// ErrPermission is returned when the target file cannot be read or written.
	ErrPermission = errors.Base("permission denied")

	// ErrIsDirectory is returned when the target path names a directory.
	ErrIsDirectory = errors.Base("path is a directory")
)

// 🔧 Options configures a single in-place rewrite
type Options struct {
	// Fs is the filesystem holding Path. Defaults to the OS filesystem.
	Fs afero.Fs

	// Path is the file to rewrite.
	Path string

	// Replacer transforms the file contents.
	Replacer text.TextReplacer

	// Rules are extra literal passes; only rules whose glob matches Path run.
	Rules []text.ReplacementRule

	// DryRun writes the result to Output and leaves the file alone.
	DryRun bool
	Output io.Writer
}

// 📦 Result describes a finished rewrite
type Result struct {
	Path    string
	Written bool
	*text.ReplacementResult
}

// 🎯 Rewrite reads the whole file, transforms it in memory and writes the
// result back over the same path. Nothing is written unless the transform
// succeeds, and no backup of the original is kept.
func Rewrite(ctx context.Context, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", opts.Path).Logger()

	if opts.Replacer == nil {
		return nil, errors.Errorf("replacer is required")
	}
	if opts.Path == "" {
		return nil, errors.Errorf("path is required")
	}
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	info, err := fsys.Stat(opts.Path)
	if err != nil {
		return nil, classify("reading", opts.Path, err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("reading %s: %w", opts.Path, ErrIsDirectory)
	}

	data, err := afero.ReadFile(fsys, opts.Path)
	if err != nil {
		return nil, classify("reading", opts.Path, err)
	}
	logger.Debug().Int("bytes", len(data)).Msg("read file")

	rules := text.FilterRules(opts.Path, opts.Rules)
	if err := opts.Replacer.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	replaced, err := opts.Replacer.ReplaceText(ctx, bytes.NewReader(data), rules)
	if err != nil {
		return nil, errors.Errorf("rewriting %s: %w", opts.Path, err)
	}

	result := &Result{
		Path:              opts.Path,
		ReplacementResult: replaced,
	}

	if opts.DryRun {
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if _, err := out.Write(replaced.ModifiedContent); err != nil {
			return nil, errors.Errorf("writing dry run output: %w", err)
		}
		logger.Debug().Int("replacements", replaced.ReplacementCount).Msg("dry run, file left unchanged")
		return result, nil
	}

	if err := afero.WriteFile(fsys, opts.Path, replaced.ModifiedContent, info.Mode().Perm()); err != nil {
		return nil, classify("writing", opts.Path, err)
	}
	result.Written = true

	logger.Debug().
		Int("bytes", len(replaced.ModifiedContent)).
		Int("replacements", replaced.ReplacementCount).
		Msg("wrote file")

	return result, nil
}

// classify wraps err with the matching sentinel so callers can use errors.Is
// without caring which filesystem produced it.
func classify(action, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.Errorf("%s %s: %w: %v", action, path, ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return errors.Errorf("%s %s: %w: %v", action, path, ErrPermission, err)
	default:
		return errors.Errorf("%s %s: %w", action, path, err)
	}
}
