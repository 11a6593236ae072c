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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/prettysvg/pkg/markup"
	"github.com/walteh/prettysvg/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🏷️ Tags overrides the tag text emitted for each style
type Tags struct {
	Bold   string `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic string `json:"italic,omitempty" yaml:"italic,omitempty"`
	Super  string `json:"super,omitempty" yaml:"super,omitempty"`
	Sub    string `json:"sub,omitempty" yaml:"sub,omitempty"`
	Close  string `json:"close,omitempty" yaml:"close,omitempty"`
}

// 🔄 Replacement is an extra literal replacement run after the sentinels
type Replacement struct {
	Old  string  `json:"old" yaml:"old"`                       // Original string to replace
	New  string  `json:"new" yaml:"new"`                       // New string to use
	File *string `json:"file,omitempty" yaml:"file,omitempty"` // Optional glob the target must match
}

// 📚 Config represents the complete configuration. Every field is optional;
// empty fields keep the defaults from markup.DefaultMarkers.
type Config struct {
	Open         string        `json:"open,omitempty" yaml:"open,omitempty"`
	Close        string        `json:"close,omitempty" yaml:"close,omitempty"`
	Tags         *Tags         `json:"tags,omitempty" yaml:"tags,omitempty"`
	LongRuns     string        `json:"long_runs,omitempty" yaml:"long_runs,omitempty"`
	Replacements []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, fsys afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(filepath.Base(path))
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if _, err := markup.ParseLongRunPolicy(cfg.LongRuns); err != nil {
		return errors.Errorf("long_runs: %w", err)
	}

	if err := cfg.Markers().Validate(); err != nil {
		return errors.Errorf("markers: %w", err)
	}

	for i, r := range cfg.Replacements {
		if r.Old == "" {
			return errors.Errorf("replacements[%d]: old is required", i)
		}
	}

	if err := text.NewSequentialReplacer().ValidateRules(cfg.Rules()); err != nil {
		return errors.Errorf("replacements: %w", err)
	}

	return nil
}

// Markers returns the default markers with any configured overrides applied.
func (cfg *Config) Markers() markup.Markers {
	m := markup.DefaultMarkers()
	if cfg.Open != "" {
		m.Open = cfg.Open
	}
	if cfg.Close != "" {
		m.Close = cfg.Close
	}
	if cfg.Tags == nil {
		return m
	}

	override := func(style markup.Style, tag string) {
		if tag != "" {
			m.Tags[style] = tag
		}
	}
	override(markup.StyleBold, cfg.Tags.Bold)
	override(markup.StyleItalic, cfg.Tags.Italic)
	override(markup.StyleSuper, cfg.Tags.Super)
	override(markup.StyleSub, cfg.Tags.Sub)
	if cfg.Tags.Close != "" {
		m.CloseTag = cfg.Tags.Close
	}
	return m
}

// Policy returns the configured long run policy, PolicySplit by default.
// Validate must have accepted the config.
func (cfg *Config) Policy() markup.LongRunPolicy {
	p, _ := markup.ParseLongRunPolicy(cfg.LongRuns)
	return p
}

// Rules returns the extra replacements as text rules, in file order.
func (cfg *Config) Rules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(cfg.Replacements))
	for _, r := range cfg.Replacements {
		rule := text.ReplacementRule{FromText: r.Old, ToText: r.New}
		if r.File != nil {
			rule.FileFilterGlob = *r.File
		}
		rules = append(rules, rule)
	}
	return rules
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	m := cfg.Markers()
	return fmt.Sprintf("open=%q close=%q long_runs=%s replacements=%d",
		m.Open, m.Close, cfg.Policy(), len(cfg.Replacements))
}

func hasSuffix(filename string, exts ...string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
