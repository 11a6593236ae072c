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
)

// ReplacementRule defines a single literal text replacement pass
type ReplacementRule struct {
	// FromText is the text to replace
	FromText string

	// ToText is the replacement text
	ToText string

	// FileFilterGlob limits the rule to paths matching a doublestar pattern.
	// An empty glob matches every path.
	FileFilterGlob string
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// Counts is the number of replacements made per rule, keyed by the
	// rule's FromText (or by style name for markup rewrites)
	Counts map[string]int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}

// Merge folds a later result into r, as if r's modified content had been the
// input of the later pass.
func (r *ReplacementResult) Merge(next *ReplacementResult) {
	if next == nil {
		return
	}
	r.ModifiedContent = next.ModifiedContent
	r.ReplacementCount += next.ReplacementCount
	r.WasModified = r.WasModified || next.WasModified
	if len(next.Counts) > 0 && r.Counts == nil {
		r.Counts = make(map[string]int, len(next.Counts))
	}
	for k, v := range next.Counts {
		r.Counts[k] += v
	}
}
