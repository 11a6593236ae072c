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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/prettysvg/pkg/markup"
	"github.com/walteh/prettysvg/pkg/text"
)

const sampleSVG = `<svg><text x="10" y="20">H&zwj;2&zwnj;O &zwj;&zwj;&zwj;&zwj;strong&zwnj;</text></svg>`

const sampleWant = `<svg><text x="10" y="20">H<tspan style="font-size:52%;baseline-shift:sub">2</tspan>O <tspan style="font-weight:bold">strong</tspan></text></svg>`

func newReplacer(t *testing.T, policy markup.LongRunPolicy) text.TextReplacer {
	t.Helper()
	r, err := markup.NewRewriter(markup.DefaultMarkers(), policy)
	require.NoError(t, err, "creating rewriter")
	return r
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644), "writing %s", path)
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, fsys afero.Fs)
		opts        func(t *testing.T) Options
		wantErr     error
		errContains string
		validate    func(t *testing.T, fsys afero.Fs, result *Result)
	}{
		{
			name: "rewrites_in_place",
			setup: func(t *testing.T, fsys afero.Fs) {
				writeFile(t, fsys, "graph.svg", sampleSVG)
			},
			opts: func(t *testing.T) Options {
				return Options{Path: "graph.svg", Replacer: newReplacer(t, markup.PolicySplit)}
			},
			validate: func(t *testing.T, fsys afero.Fs, result *Result) {
				assert.Equal(t, sampleWant, readFile(t, fsys, "graph.svg"))
				assert.True(t, result.Written)
				assert.True(t, result.WasModified)
				assert.Equal(t, 4, result.ReplacementCount)
				assert.Equal(t, "graph.svg", result.Path)
			},
		},
		{
			name: "plain_file_rewritten_unchanged",
			setup: func(t *testing.T, fsys afero.Fs) {
				writeFile(t, fsys, "plain.txt", "plain text")
			},
			opts: func(t *testing.T) Options {
				return Options{Path: "plain.txt", Replacer: newReplacer(t, markup.PolicySplit)}
			},
			validate: func(t *testing.T, fsys afero.Fs, result *Result) {
				assert.Equal(t, "plain text", readFile(t, fsys, "plain.txt"))
				assert.True(t, result.Written)
				assert.False(t, result.WasModified)
			},
		},
		{
			name: "missing_file",
			opts: func(t *testing.T) Options {
				return Options{Path: "nope.svg", Replacer: newReplacer(t, markup.PolicySplit)}
			},
			wantErr:     ErrNotFound,
			errContains: "reading nope.svg",
		},
		{
			name: "directory",
			setup: func(t *testing.T, fsys afero.Fs) {
				require.NoError(t, fsys.MkdirAll("out", 0o755))
			},
			opts: func(t *testing.T) Options {
				return Options{Path: "out", Replacer: newReplacer(t, markup.PolicySplit)}
			},
			wantErr: ErrIsDirectory,
		},
		{
			name: "long_run_rejected_file_untouched",
			setup: func(t *testing.T, fsys afero.Fs) {
				writeFile(t, fsys, "long.svg", "&zwj;&zwj;&zwj;&zwj;&zwj;x")
			},
			opts: func(t *testing.T) Options {
				return Options{Path: "long.svg", Replacer: newReplacer(t, markup.PolicyReject)}
			},
			wantErr: markup.ErrLongRun,
			validate: func(t *testing.T, fsys afero.Fs, result *Result) {
				assert.Equal(t, "&zwj;&zwj;&zwj;&zwj;&zwj;x", readFile(t, fsys, "long.svg"))
			},
		},
		{
			name: "rules_filtered_by_glob",
			setup: func(t *testing.T, fsys afero.Fs) {
				writeFile(t, fsys, "docs/graph.svg", `<text font-family="Times">&zwj;&zwj;&zwj;x&zwnj;</text>`)
			},
			opts: func(t *testing.T) Options {
				return Options{
					Path:     "docs/graph.svg",
					Replacer: newReplacer(t, markup.PolicySplit),
					Rules: []text.ReplacementRule{
						{FromText: "Times", ToText: "Helvetica", FileFilterGlob: "*.svg"},
						{FromText: "text", ToText: "TEXT", FileFilterGlob: "*.txt"},
					},
				}
			},
			validate: func(t *testing.T, fsys afero.Fs, result *Result) {
				assert.Equal(t,
					`<text font-family="Helvetica"><tspan style="font-style:italic">x</tspan></text>`,
					readFile(t, fsys, "docs/graph.svg"))
				assert.Equal(t, 3, result.ReplacementCount)
			},
		},
		{
			name: "invalid_rules",
			setup: func(t *testing.T, fsys afero.Fs) {
				writeFile(t, fsys, "graph.svg", sampleSVG)
			},
			opts: func(t *testing.T) Options {
				return Options{
					Path:     "graph.svg",
					Replacer: newReplacer(t, markup.PolicySplit),
					Rules:    []text.ReplacementRule{{ToText: "x"}},
				}
			},
			errContains: "validating rules",
			validate: func(t *testing.T, fsys afero.Fs, result *Result) {
				assert.Equal(t, sampleSVG, readFile(t, fsys, "graph.svg"))
			},
		},
		{
			name: "legacy_sequential_engine",
			setup: func(t *testing.T, fsys afero.Fs) {
				writeFile(t, fsys, "graph.svg", sampleSVG)
			},
			opts: func(t *testing.T) Options {
				return Options{
					Path:     "graph.svg",
					Replacer: text.NewSequentialReplacer(),
					Rules:    markup.LegacyRules(markup.DefaultMarkers()),
				}
			},
			validate: func(t *testing.T, fsys afero.Fs, result *Result) {
				assert.Equal(t, sampleWant, readFile(t, fsys, "graph.svg"))
			},
		},
		{
			name: "missing_replacer",
			opts: func(t *testing.T) Options {
				return Options{Path: "graph.svg"}
			},
			errContains: "replacer is required",
		},
		{
			name: "missing_path",
			opts: func(t *testing.T) Options {
				return Options{Replacer: newReplacer(t, markup.PolicySplit)}
			},
			errContains: "path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if tt.setup != nil {
				tt.setup(t, fsys)
			}

			opts := tt.opts(t)
			opts.Fs = fsys

			result, err := Rewrite(context.Background(), opts)
			if tt.wantErr != nil || tt.errContains != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}

			if tt.validate != nil {
				tt.validate(t, fsys, result)
			}
		})
	}
}

func TestRewrite_DryRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "graph.svg", sampleSVG)

	var out bytes.Buffer
	result, err := Rewrite(context.Background(), Options{
		Fs:       fsys,
		Path:     "graph.svg",
		Replacer: newReplacer(t, markup.PolicySplit),
		DryRun:   true,
		Output:   &out,
	})
	require.NoError(t, err)

	assert.False(t, result.Written)
	assert.True(t, result.WasModified)
	assert.Equal(t, sampleWant, out.String())
	assert.Equal(t, sampleSVG, readFile(t, fsys, "graph.svg"), "dry run must not touch the file")
}

func TestRewrite_ReadOnlyFilesystem(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFile(t, base, "graph.svg", sampleSVG)

	_, err := Rewrite(context.Background(), Options{
		Fs:       afero.NewReadOnlyFs(base),
		Path:     "graph.svg",
		Replacer: newReplacer(t, markup.PolicySplit),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermission)
	assert.Contains(t, err.Error(), "writing graph.svg")
	assert.Equal(t, sampleSVG, readFile(t, base, "graph.svg"))
}

func TestRewrite_OsFilesystemKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.svg")
	require.NoError(t, os.WriteFile(path, []byte(sampleSVG), 0o600))

	result, err := Rewrite(context.Background(), Options{
		Path:     path,
		Replacer: newReplacer(t, markup.PolicySplit),
	})
	require.NoError(t, err)
	assert.True(t, result.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleWant, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = Rewrite(context.Background(), Options{
		Path:     filepath.Join(dir, "missing.svg"),
		Replacer: newReplacer(t, markup.PolicySplit),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
