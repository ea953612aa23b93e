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

package querybuilder

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/rode/es-query-builder/go/config"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/esutil"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/filtering"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/ordering"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/searching"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Builder interface {
	Build(args *QueryArgs) (*esutil.SearchRequest, error)
	BuildSearchRequest(args *QueryArgs) (*esapi.SearchRequest, error)
}

type builder struct {
	logger   *zap.Logger
	filterer filtering.Filterer
	config   *config.Config
}

// NewBuilder returns a Builder. It holds no mutable state and may be shared between goroutines.
func NewBuilder(logger *zap.Logger, filterer filtering.Filterer, c *config.Config) Builder {
	if c == nil {
		c = &config.Config{}
	}
	if filterer == nil {
		filterer = filtering.NewFilterer()
	}

	return &builder{
		logger,
		filterer,
		c,
	}
}

// Build compiles filters, searches and orders independently and assembles them with the
// pagination, highlight and total hits options into a search request body.
// Options that were not asked for are left out of the body entirely.
func (b *builder) Build(args *QueryArgs) (*esutil.SearchRequest, error) {
	log := b.logger.Named("Build")
	if args == nil {
		args = &QueryArgs{}
	}

	filterQuery, err := b.compileFilters(args)
	if err != nil {
		return nil, err
	}

	search, err := compileSearches(args)
	if err != nil {
		return nil, err
	}

	request := &esutil.SearchRequest{
		Query: &esutil.Query{
			Bool: &esutil.Bool{
				Must: []*esutil.Query{
					filterQuery,
					search.Query,
				},
			},
		},
		From:           b.offset(args.Offset),
		Size:           b.limit(args.Limit),
		Sort:           ordering.CompileOrder(args.Orders.Items),
		TrackTotalHits: args.TrackTotalHits,
	}

	if args.IsHighlight {
		request.Highlight = search.Highlight
		if tags := b.config.Highlight; tags != nil {
			request.Highlight.PreTags = append([]string(nil), tags.PreTags...)
			request.Highlight.PostTags = append([]string(nil), tags.PostTags...)
		}
	}

	if ce := log.Check(zapcore.DebugLevel, "compiled search request"); ce != nil {
		_, requestJson := esutil.EncodeRequest(request)
		ce.Write(zap.String("request", requestJson))
	}

	return request, nil
}

// BuildSearchRequest builds the body and wraps it in an esapi request against the configured index
func (b *builder) BuildSearchRequest(args *QueryArgs) (*esapi.SearchRequest, error) {
	body, err := b.Build(args)
	if err != nil {
		return nil, err
	}

	index := ""
	if b.config.Elasticsearch != nil {
		index = b.config.Elasticsearch.Index
	}

	return esutil.NewSearchRequest(index, body), nil
}

func (b *builder) compileFilters(args *QueryArgs) (*esutil.Query, error) {
	filters := args.Filters
	if args.FilterExpression != "" {
		parsed, err := b.filterer.ParseExpression(args.FilterExpression)
		if err != nil {
			return nil, fmt.Errorf("error parsing filter expression: %w", err)
		}
		filters = Many(append(append([]filtering.Filter(nil), filters.Items...), parsed)...)
	}

	if filters.IsList {
		return filtering.CompileFilters(filters.Items)
	}
	if len(filters.Items) == 0 {
		return filtering.CompileFilter(nil)
	}

	return filtering.CompileFilter(filters.Items[0])
}

func compileSearches(args *QueryArgs) (*searching.Compiled, error) {
	searches := args.Searches
	if searches.IsList {
		return searching.CompileSearches(searches.Items, args.IsHighlight)
	}
	if len(searches.Items) == 0 {
		return searching.CompileSearch(nil, args.IsHighlight)
	}

	compiled, err := searching.CompileSearch(&searches.Items[0], args.IsHighlight)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return compiled, nil
}

func (b *builder) offset(offset *int) *int {
	return b.pageValue(offset, 0)
}

func (b *builder) limit(limit *int) *int {
	maxSize := 0
	if b.config.Pagination != nil {
		maxSize = b.config.Pagination.MaxSize
	}

	return b.pageValue(limit, maxSize)
}

// pageValue copies a pagination value, dropping it when it was not provided (or is zero
// and zero values are configured to be omitted) and capping it at max when max is positive
func (b *builder) pageValue(value *int, max int) *int {
	if value == nil {
		return nil
	}
	if *value == 0 && b.config.Pagination != nil && b.config.Pagination.OmitZero {
		return nil
	}

	v := *value
	if max > 0 && v > max {
		v = max
	}

	return &v
}
