// Copyright 2021 The Rode Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package searching

import (
	"strings"

	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/esutil"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/normalize"
)

const linkMarker = "http"

type signals struct {
	accent        bool
	special       bool
	link          bool
	allowNoAccent bool
}

type fieldTarget int

const (
	literalField fieldTarget = iota
	accentField
	exactField
)

type clauseType int

const (
	matchClause clauseType = iota
	phraseClause
	termClause
)

// strategy is one row of the scoring matrix: when applies holds, a clause of the given type
// is emitted on the target field, boosted by the attribute rate times priority
type strategy struct {
	applies  func(s signals) bool
	target   fieldTarget
	clause   clauseType
	priority Priority
}

var strategies = []strategy{
	// keyword with diacritics
	{func(s signals) bool { return s.accent && !s.link }, accentField, matchClause, PriorityLowest},
	{func(s signals) bool { return s.accent && s.special }, accentField, phraseClause, PriorityMedium},
	{func(s signals) bool { return s.accent && !s.special && !s.link }, literalField, matchClause, PriorityLow},
	{func(s signals) bool { return s.accent && !s.special }, literalField, phraseClause, PriorityHigh},
	{func(s signals) bool { return s.accent }, exactField, termClause, PriorityHighest},

	// keyword without diacritics
	{func(s signals) bool { return !s.accent && s.allowNoAccent }, accentField, phraseClause, PriorityMedium},
	{func(s signals) bool { return !s.accent && s.special && !s.link }, accentField, matchClause, PriorityLowest},
	{func(s signals) bool { return !s.accent && s.special }, exactField, termClause, PriorityHighest},
	{func(s signals) bool { return !s.accent && !s.special && !s.link && s.allowNoAccent }, accentField, matchClause, PriorityLowest},
	{func(s signals) bool { return !s.accent && !s.special && !s.link }, literalField, matchClause, PriorityLow},
	{func(s signals) bool { return !s.accent && !s.special }, literalField, phraseClause, PriorityHigh},
}

// Analyze expands keyword into alternative match clauses over every attribute. At least one
// alternative has to match; documents are ranked by the accumulated boost.
// Without attributes there are no alternatives, so the query matches nothing.
func Analyze(keyword string, attributes []Attribute) *esutil.Query {
	folded := normalize.StripAccents(keyword)
	hasAccent := folded != keyword
	hasSpecial := normalize.HasSpecialCharacters(keyword)
	isLink := strings.Contains(keyword, linkMarker)

	var should []*esutil.Query
	for _, attribute := range attributes {
		s := signals{
			accent:        hasAccent,
			special:       hasSpecial,
			link:          isLink || attribute.IsLink,
			allowNoAccent: attribute.AllowSearchNoAccent,
		}

		for _, rule := range strategies {
			if !rule.applies(s) {
				continue
			}

			field, value := attribute.Key, keyword
			switch rule.target {
			case accentField:
				field, value = attribute.accentField(), folded
			case exactField:
				field = attribute.exactField()
			}

			should = append(should, boostedClause(rule.clause, field, value, attribute.rate()*float64(rule.priority)))
		}
	}

	return &esutil.Query{
		Bool: &esutil.Bool{
			Should:             should,
			MinimumShouldMatch: 1,
		},
	}
}

func boostedClause(clause clauseType, field, value string, boost float64) *esutil.Query {
	switch clause {
	case termClause:
		return &esutil.Query{
			Term: esutil.Term{
				field: &esutil.TermValue{Value: value, Boost: boost},
			},
		}
	case phraseClause:
		return &esutil.Query{
			MatchPhrase: esutil.Match{
				field: &esutil.MatchValue{Query: value, Boost: boost},
			},
		}
	default:
		return &esutil.Query{
			Match: esutil.Match{
				field: &esutil.MatchValue{Query: value, Boost: boost},
			},
		}
	}
}
