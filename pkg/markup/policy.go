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

	"gitlab.com/tozd/go/errors"
)

// ErrLongRun is returned under PolicyReject for a run longer than MaxRun.
var ErrLongRun = errors.Base("sentinel run too long")

// LongRunPolicy decides what happens to a run of more than MaxRun open
// sentinels.
type LongRunPolicy int

const (
	// PolicySplit emits one bold tag per MaxRun sentinels and classifies the
	// remainder by its length. This is what ordered replacement passes produce.
	PolicySplit LongRunPolicy = iota

	// PolicyReject fails the rewrite.
	PolicyReject
)

func (p LongRunPolicy) String() string {
	switch p {
	case PolicySplit:
		return "split"
	case PolicyReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseLongRunPolicy parses a policy name. An empty name is PolicySplit.
func ParseLongRunPolicy(name string) (LongRunPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "split":
		return PolicySplit, nil
	case "reject":
		return PolicyReject, nil
	default:
		return 0, errors.Errorf("unknown long run policy %q (want split or reject)", name)
	}
}
