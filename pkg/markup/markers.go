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
	"strings"

	"github.com/walteh/prettysvg/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultOpen is the entity text WebGraphviz lets through unchanged. A run
	// of one to four of them opens a styled span.
	DefaultOpen = "&zwj;"

	// DefaultClose closes the most recently opened span.
	DefaultClose = "&zwnj;"

	// MaxRun is the longest run of open sentinels that maps to a single tag.
	MaxRun = 4
)

// Style names an opening tag, selected by run length.
type Style string

const (
	StyleSub    Style = "sub"    // run of 1
	StyleSuper  Style = "super"  // run of 2
	StyleItalic Style = "italic" // run of 3
	StyleBold   Style = "bold"   // run of 4
	StyleClose  Style = "close"
)

// runStyles maps a run length to its style; index 0 is unused.
var runStyles = [MaxRun + 1]Style{"", StyleSub, StyleSuper, StyleItalic, StyleBold}

// Markers describes the sentinel texts and the tags they turn into.
type Markers struct {
	Open     string
	Close    string
	Tags     map[Style]string
	CloseTag string
}

// DefaultMarkers returns the zwj/zwnj markers with tspan tags.
func DefaultMarkers() Markers {
	return Markers{
		Open:  DefaultOpen,
		Close: DefaultClose,
		Tags: map[Style]string{
			StyleBold:   `<tspan style="font-weight:bold">`,
			StyleItalic: `<tspan style="font-style:italic">`,
			StyleSuper:  `<tspan style="font-size:52%;baseline-shift:super">`,
			StyleSub:    `<tspan style="font-size:52%;baseline-shift:sub">`,
		},
		CloseTag: `</tspan>`,
	}
}

// Validate checks that the markers can be matched unambiguously.
func (m Markers) Validate() error {
	if m.Open == "" {
		return errors.Errorf("open sentinel is required")
	}
	if m.Close == "" {
		return errors.Errorf("close sentinel is required")
	}
	if strings.Contains(m.Open, m.Close) || strings.Contains(m.Close, m.Open) ||
		overlaps(m.Open, m.Close) || overlaps(m.Close, m.Open) {
		return errors.Errorf("sentinels %q and %q overlap", m.Open, m.Close)
	}
	for n := 1; n <= MaxRun; n++ {
		style := runStyles[n]
		if _, ok := m.Tags[style]; !ok {
			return errors.Errorf("missing tag for style %q", style)
		}
	}
	return nil
}

// overlaps reports whether a proper suffix of a is a prefix of b, as in
// "ab" followed by "ba" on the input "aba".
func overlaps(a, b string) bool {
	for i := 1; i < len(a); i++ {
		if strings.HasPrefix(b, a[i:]) {
			return true
		}
	}
	return false
}

// LegacyRules returns the markers as ordered literal replacement passes,
// longest run first, closing sentinel last.
func LegacyRules(m Markers) []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, MaxRun+1)
	for n := MaxRun; n >= 1; n-- {
		rules = append(rules, text.ReplacementRule{
			FromText: strings.Repeat(m.Open, n),
			ToText:   m.Tags[runStyles[n]],
		})
	}
	return append(rules, text.ReplacementRule{
		FromText: m.Close,
		ToText:   m.CloseTag,
	})
}
