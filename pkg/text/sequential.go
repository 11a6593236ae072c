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

package text

import (
	"context"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var _ TextReplacer = (*SequentialReplacer)(nil)

// SequentialReplacer implements TextReplacer with one full strings.ReplaceAll
// pass per rule. Each pass sees the output of the previous one, so rule order
// is significant.
type SequentialReplacer struct{}

// NewSequentialReplacer creates a new SequentialReplacer
func NewSequentialReplacer() *SequentialReplacer {
	return &SequentialReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SequentialReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		Counts:          map[string]int{},
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("replacing text: %w", err)
		}

		// Skip empty rules
		if rule.FromText == "" {
			continue
		}

		count := strings.Count(currentContent, rule.FromText)
		if count == 0 {
			continue
		}

		currentContent = strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
		result.WasModified = true
		result.ReplacementCount += count
		result.Counts[rule.FromText] += count

		zerolog.Ctx(ctx).Trace().
			Str("from", rule.FromText).
			Int("count", count).
			Msg("applied replacement pass")
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SequentialReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}

// FilterRules returns the rules whose FileFilterGlob matches path. The glob is
// tried against both the full path and its base name, so "*.svg" matches
// "out/graph.svg".
func FilterRules(path string, rules []ReplacementRule) []ReplacementRule {
	path = strings.ReplaceAll(path, "\\", "/")
	base := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		base = path[idx+1:]
	}

	var out []ReplacementRule
	for _, rule := range rules {
		if rule.FileFilterGlob == "" {
			out = append(out, rule)
			continue
		}
		if ok, _ := doublestar.Match(rule.FileFilterGlob, path); ok {
			out = append(out, rule)
			continue
		}
		if ok, _ := doublestar.Match(rule.FileFilterGlob, base); ok {
			out = append(out, rule)
		}
	}
	return out
}
