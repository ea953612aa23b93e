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
	"fmt"

	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/esutil"
)

// Compiled is the result of compiling one or more search inputs. Highlight is nil unless
// highlighting was requested.
type Compiled struct {
	Query     *esutil.Query
	Highlight *esutil.Highlight
}

type analyzerBuilder func(input *SearchInput, boost float64) *esutil.Query

var analyzerBuilders = map[AnalyzerMode]analyzerBuilder{
	AnalyzerExactOrder:       exactOrderQuery,
	AnalyzerIgnoreDiacritics: ignoreDiacriticsQuery,
}

// CompileSearch compiles a single search input
func CompileSearch(input *SearchInput, highlight bool) (*Compiled, error) {
	compiled := &Compiled{
		Query:     esutil.NewBoolQuery(),
		Highlight: newHighlight(highlight),
	}
	if input == nil {
		return compiled, nil
	}

	query, err := compileInput(input)
	if err != nil {
		return nil, err
	}
	compiled.Query = query
	addHighlightFields(compiled.Highlight, input)

	return compiled, nil
}

// CompileSearches compiles a list of search inputs, any of which may match
func CompileSearches(inputs []SearchInput, highlight bool) (*Compiled, error) {
	compiled := &Compiled{
		Query:     esutil.NewBoolQuery(),
		Highlight: newHighlight(highlight),
	}

	for i := range inputs {
		query, err := compileInput(&inputs[i])
		if err != nil {
			return nil, fmt.Errorf("searches[%d]: %w", i, err)
		}
		compiled.Query.Bool.Should = append(compiled.Query.Bool.Should, query)
		addHighlightFields(compiled.Highlight, &inputs[i])
	}

	return compiled, nil
}

func compileInput(input *SearchInput) (*esutil.Query, error) {
	analyzers := input.analyzers()
	boost := input.boost()

	if len(analyzers) == 0 {
		return &esutil.Query{
			Match: esutil.Match{
				input.Key: &esutil.MatchValue{Query: input.Value, Boost: boost},
			},
		}, nil
	}

	builders := make([]analyzerBuilder, len(analyzers))
	for i, analyzer := range analyzers {
		build, ok := analyzerBuilders[analyzer]
		if !ok {
			return nil, &UnsupportedAnalyzerError{Key: input.Key, Analyzer: analyzer}
		}
		builders[i] = build
	}

	if len(builders) == 1 {
		return builders[0](input, boost), nil
	}

	query := &esutil.Query{
		Bool: &esutil.Bool{
			Boost: boost,
		},
	}
	for _, build := range builders {
		query.Bool.Must = append(query.Bool.Must, build(input, 0))
	}

	return query, nil
}

func exactOrderQuery(input *SearchInput, boost float64) *esutil.Query {
	return &esutil.Query{
		MatchPhrase: esutil.Match{
			input.Key: &esutil.MatchValue{Query: input.Value, Boost: boost},
		},
	}
}

func ignoreDiacriticsQuery(input *SearchInput, boost float64) *esutil.Query {
	query := Analyze(input.Value, []Attribute{
		{
			Key:                 input.Key,
			Rate:                1,
			AllowSearchNoAccent: true,
		},
	})
	query.Bool.Boost = boost

	return query
}

func newHighlight(enabled bool) *esutil.Highlight {
	if !enabled {
		return nil
	}

	return &esutil.Highlight{
		Fields: map[string]*esutil.HighlightField{},
	}
}

func addHighlightFields(highlight *esutil.Highlight, input *SearchInput) {
	if highlight == nil {
		return
	}

	highlight.Fields[input.Key] = &esutil.HighlightField{}
	if input.uses(AnalyzerIgnoreDiacritics) {
		highlight.Fields[fmt.Sprintf("%s.%s", input.Key, AccentFieldSuffix)] = &esutil.HighlightField{}
	}
}
