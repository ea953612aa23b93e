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

package esutil

// Elasticsearch bool query grammar

type Query struct {
	Bool        *Bool   `json:"bool,omitempty"`
	Term        Term    `json:"term,omitempty"`
	Match       Match   `json:"match,omitempty"`
	MatchPhrase Match   `json:"match_phrase,omitempty"`
	Range       Range   `json:"range,omitempty"`
	Exists      *Exists `json:"exists,omitempty"`
	Nested      *Nested `json:"nested,omitempty"`
}

// Bool holds the conjunctive (Must), disjunctive (Should) and negated (MustNot) clauses of a query
type Bool struct {
	Must               []*Query `json:"must,omitempty"`
	Should             []*Query `json:"should,omitempty"`
	MustNot            []*Query `json:"must_not,omitempty"`
	MinimumShouldMatch int      `json:"minimum_should_match,omitempty"`
	Boost              float64  `json:"boost,omitempty"`
}

// Term maps a field to either a plain string or a *TermValue when a boost is needed
type Term map[string]interface{}

type TermValue struct {
	Value string  `json:"value"`
	Boost float64 `json:"boost,omitempty"`
}

// Match maps a field to either a plain string or a *MatchValue when a boost is needed.
// It is used for both match and match_phrase clauses.
type Match map[string]interface{}

type MatchValue struct {
	Query string  `json:"query"`
	Boost float64 `json:"boost,omitempty"`
}

type Range map[string]RangeBounds

// RangeBounds maps a comparator (gt, gte, lt, lte) to its bound
type RangeBounds map[string]string

type Exists struct {
	Field string `json:"field"`
}

type Nested struct {
	Path  string `json:"path"`
	Query *Query `json:"query"`
}

// Elasticsearch /_search request body

type SearchRequest struct {
	Query          *Query     `json:"query"`
	From           *int       `json:"from,omitempty"`
	Size           *int       `json:"size,omitempty"`
	Sort           Sort       `json:"sort,omitempty"`
	Highlight      *Highlight `json:"highlight,omitempty"`
	TrackTotalHits bool       `json:"track_total_hits,omitempty"`
}

type SortOrder string

const (
	SortOrderAscending  SortOrder = "ASC"
	SortOrderDescending SortOrder = "DESC"
)

// Sort is a list of single-field sort directives, applied in order
type Sort []map[string]SortOrder

type Highlight struct {
	Fields   map[string]*HighlightField `json:"fields"`
	PreTags  []string                   `json:"pre_tags,omitempty"`
	PostTags []string                   `json:"post_tags,omitempty"`
}

type HighlightField struct{}

// NewBoolQuery returns an empty bool query, which serializes as {"bool":{}}
func NewBoolQuery() *Query {
	return &Query{
		Bool: &Bool{},
	}
}
