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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/prettysvg/pkg/markup"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasSuffix(filename, ".hcl")
}

// evalContext exposes the default sentinels so a config can write
// `open = zwj` instead of spelling out the entity.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"zwj":  cty.StringVal(markup.DefaultOpen),
			"zwnj": cty.StringVal(markup.DefaultClose),
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "prettysvg.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	type hclConfig struct {
		Open     string `hcl:"open,optional"`
		Close    string `hcl:"close,optional"`
		LongRuns string `hcl:"long_runs,optional"`
		Tags     *struct {
			Bold   string `hcl:"bold,optional"`
			Italic string `hcl:"italic,optional"`
			Super  string `hcl:"super,optional"`
			Sub    string `hcl:"sub,optional"`
			Close  string `hcl:"close,optional"`
		} `hcl:"tags,block"`
		Replacements []struct {
			Old  string  `hcl:"old"`
			New  string  `hcl:"new"`
			File *string `hcl:"file,optional"`
		} `hcl:"replacement,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Open:     hclCfg.Open,
		Close:    hclCfg.Close,
		LongRuns: hclCfg.LongRuns,
	}

	if hclCfg.Tags != nil {
		cfg.Tags = &Tags{
			Bold:   hclCfg.Tags.Bold,
			Italic: hclCfg.Tags.Italic,
			Super:  hclCfg.Tags.Super,
			Sub:    hclCfg.Tags.Sub,
			Close:  hclCfg.Tags.Close,
		}
	}

	for _, r := range hclCfg.Replacements {
		cfg.Replacements = append(cfg.Replacements, Replacement{
			Old:  r.Old,
			New:  r.New,
			File: r.File,
		})
	}

	return cfg, nil
}
