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

package filtering

import (
	"fmt"
	"strings"

	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/esutil"
)

// LiteralFieldMarker prefixes a key segment that must not be treated as a nested document
// boundary. The marker is stripped and the segment, along with the rest of the key, names the field.
const LiteralFieldMarker = "$"

type clauseBuilder func(leaf *Leaf) (*esutil.Query, error)

var clauseBuilders = map[ClauseKind]clauseBuilder{
	TermClause:        anyValue(termQuery),
	PhraseClause:      anyValue(phraseQuery),
	NegatedTermClause: noValue(termQuery),
	RangeClause:       rangeQuery,
	ExistsClause:      existsQuery,
}

// CompileFilter compiles a filter tree into a bool query. And children and the node's own
// condition go to must, Or children go to should. A nil filter compiles to {"bool":{}}.
func CompileFilter(filter Filter) (*esutil.Query, error) {
	query := esutil.NewBoolQuery()

	switch f := filter.(type) {
	case nil:
	case *Leaf:
		if f == nil {
			break
		}
		clause, err := compileLeaf(f)
		if err != nil {
			return nil, err
		}
		query.Bool.Must = append(query.Bool.Must, clause)
	case *Group:
		if f == nil {
			break
		}
		for i, child := range f.And {
			clause, err := CompileFilter(child)
			if err != nil {
				return nil, fmt.Errorf("and[%d]: %w", i, err)
			}
			query.Bool.Must = append(query.Bool.Must, clause)
		}

		if f.Leaf != nil {
			clause, err := compileLeaf(f.Leaf)
			if err != nil {
				return nil, err
			}
			query.Bool.Must = append(query.Bool.Must, clause)
		}

		for i, child := range f.Or {
			clause, err := CompileFilter(child)
			if err != nil {
				return nil, fmt.Errorf("or[%d]: %w", i, err)
			}
			query.Bool.Should = append(query.Bool.Should, clause)
		}
	default:
		return nil, fmt.Errorf("unrecognized filter: %T", filter)
	}

	return query, nil
}

// CompileFilters compiles a list of independent filters, each of which must match
func CompileFilters(filters []Filter) (*esutil.Query, error) {
	query := esutil.NewBoolQuery()

	for i, filter := range filters {
		clause, err := CompileFilter(filter)
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		query.Bool.Must = append(query.Bool.Must, clause)
	}

	return query, nil
}

func compileLeaf(leaf *Leaf) (*esutil.Query, error) {
	kind, err := ClauseKindOf(leaf.Operator)
	if err != nil {
		return nil, err
	}

	return clauseBuilders[kind](leaf)
}

func anyValue(build func(field, value string) *esutil.Query) clauseBuilder {
	return func(leaf *Leaf) (*esutil.Query, error) {
		return &esutil.Query{
			Bool: &esutil.Bool{
				Should: valueQueries(leaf, build),
			},
		}, nil
	}
}

func noValue(build func(field, value string) *esutil.Query) clauseBuilder {
	return func(leaf *Leaf) (*esutil.Query, error) {
		return &esutil.Query{
			Bool: &esutil.Bool{
				MustNot: valueQueries(leaf, build),
			},
		}, nil
	}
}

func valueQueries(leaf *Leaf, build func(field, value string) *esutil.Query) []*esutil.Query {
	var queries []*esutil.Query
	for _, value := range leaf.Values {
		value := value
		queries = append(queries, fieldQuery(leaf.Key, func(field string) *esutil.Query {
			return build(field, value)
		}))
	}

	return queries
}

func termQuery(field, value string) *esutil.Query {
	return &esutil.Query{
		Term: esutil.Term{
			field: value,
		},
	}
}

func phraseQuery(field, value string) *esutil.Query {
	return &esutil.Query{
		MatchPhrase: esutil.Match{
			field: value,
		},
	}
}

func rangeQuery(leaf *Leaf) (*esutil.Query, error) {
	if len(leaf.Values) != 1 {
		return nil, &InvalidRangeValueCountError{
			Key:      leaf.Key,
			Operator: leaf.Operator,
			Count:    len(leaf.Values),
		}
	}

	return fieldQuery(leaf.Key, func(field string) *esutil.Query {
		return &esutil.Query{
			Range: esutil.Range{
				field: {
					string(leaf.Operator): leaf.Values[0],
				},
			},
		}
	}), nil
}

func existsQuery(leaf *Leaf) (*esutil.Query, error) {
	return fieldQuery(leaf.Key, func(field string) *esutil.Query {
		return &esutil.Query{
			Exists: &esutil.Exists{
				Field: field,
			},
		}
	}), nil
}

// fieldQuery builds the query for a possibly dot-separated key, wrapping it in one nested
// query per parent segment, outermost first
func fieldQuery(key string, build func(field string) *esutil.Query) *esutil.Query {
	segments := strings.Split(key, ".")

	var paths []string
	for i := 0; i < len(segments)-1; i++ {
		if strings.HasPrefix(segments[i], LiteralFieldMarker) {
			break
		}
		paths = append(paths, strings.Join(segments[:i+1], "."))
	}

	fieldSegments := make([]string, len(segments))
	for i, segment := range segments {
		fieldSegments[i] = strings.TrimPrefix(segment, LiteralFieldMarker)
	}

	query := build(strings.Join(fieldSegments, "."))
	for i := len(paths) - 1; i >= 0; i-- {
		query = &esutil.Query{
			Nested: &esutil.Nested{
				Path:  paths[i],
				Query: query,
			},
		}
	}

	return query
}
