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

package markup

import (
	"bytes"
	"context"
	"io"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/walteh/prettysvg/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var _ text.TextReplacer = (*Rewriter)(nil)

// Rewriter turns sentinel runs into tags in a single left-to-right scan.
// Every maximal run of open sentinels is classified by its length, so the
// result never depends on the order of replacement passes.
type Rewriter struct {
	markers Markers
	policy  LongRunPolicy
	pattern *regexp.Regexp
	rest    *text.SequentialReplacer
}

// NewRewriter compiles a rewriter for the given markers.
func NewRewriter(markers Markers, policy LongRunPolicy) (*Rewriter, error) {
	if err := markers.Validate(); err != nil {
		return nil, errors.Errorf("validating markers: %w", err)
	}
	if policy != PolicySplit && policy != PolicyReject {
		return nil, errors.Errorf("unknown long run policy %d", policy)
	}

	pattern, err := regexp.Compile("(?:" + regexp.QuoteMeta(markers.Open) + ")+|" + regexp.QuoteMeta(markers.Close))
	if err != nil {
		return nil, errors.Errorf("compiling sentinel pattern: %w", err)
	}

	return &Rewriter{
		markers: markers,
		policy:  policy,
		pattern: pattern,
		rest:    text.NewSequentialReplacer(),
	}, nil
}

// Rewrite replaces every sentinel run and closing sentinel in content.
// Result counts are keyed by Style.
func (r *Rewriter) Rewrite(ctx context.Context, content []byte) (*text.ReplacementResult, error) {
	result := &text.ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
		Counts:          map[string]int{},
	}

	matches := r.pattern.FindAllIndex(content, -1)
	if len(matches) == 0 {
		return result, nil
	}

	var out bytes.Buffer
	out.Grow(len(content) + len(matches)*len(r.markers.Tags[StyleBold]))

	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		out.Write(content[last:start])
		last = end

		match := content[start:end]
		if string(match) == r.markers.Close {
			out.WriteString(r.markers.CloseTag)
			result.Counts[string(StyleClose)]++
			result.ReplacementCount++
			continue
		}

		run := len(match) / len(r.markers.Open)
		if run > MaxRun {
			if r.policy == PolicyReject {
				return nil, errors.Errorf("%w: %d sentinels at offset %d", ErrLongRun, run, start)
			}
			zerolog.Ctx(ctx).Debug().
				Int("offset", start).
				Int("run", run).
				Msg("splitting long sentinel run")
		}

		for run > 0 {
			n := run
			if n > MaxRun {
				n = MaxRun
			}
			style := runStyles[n]
			out.WriteString(r.markers.Tags[style])
			result.Counts[string(style)]++
			result.ReplacementCount++
			run -= n
		}
	}
	out.Write(content[last:])

	result.ModifiedContent = out.Bytes()
	result.WasModified = true
	return result, nil
}

// ReplaceText implements text.TextReplacer. Sentinels are rewritten first,
// then rules are applied as ordered literal passes over the result.
func (r *Rewriter) ReplaceText(ctx context.Context, content io.Reader, rules []text.ReplacementRule) (*text.ReplacementResult, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result, err := r.Rewrite(ctx, data)
	if err != nil {
		return nil, err
	}

	if len(rules) == 0 {
		return result, nil
	}

	extra, err := r.rest.ReplaceText(ctx, bytes.NewReader(result.ModifiedContent), rules)
	if err != nil {
		return nil, errors.Errorf("applying extra rules: %w", err)
	}
	result.Merge(extra)
	return result, nil
}

// ValidateRules implements text.TextReplacer.
func (r *Rewriter) ValidateRules(rules []text.ReplacementRule) error {
	return r.rest.ValidateRules(rules)
}
