package querybuilder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/filtering"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/ordering"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/searching"
)

// OneOrMany holds either a single item or a list of items. The distinction matters: a list of
// filters is conjoined and a list of searches is disjoined, while a single item is compiled as is.
type OneOrMany[T any] struct {
	Items  []T
	IsList bool
}

func One[T any](item T) OneOrMany[T] {
	return OneOrMany[T]{Items: []T{item}}
}

func Many[T any](items ...T) OneOrMany[T] {
	return OneOrMany[T]{Items: items, IsList: true}
}

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = OneOrMany[T]{}
		return nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*o = Many(items...)
		return nil
	}

	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return err
	}
	*o = One(item)

	return nil
}

func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	if o.IsList {
		return json.Marshal(o.Items)
	}
	if len(o.Items) == 0 {
		return []byte("null"), nil
	}

	return json.Marshal(o.Items[0])
}

// QueryArgs is everything a search request is built from. Absent parts compile to nothing.
type QueryArgs struct {
	Filters OneOrMany[filtering.Filter]
	// FilterExpression is a CEL filter, conjoined with Filters when set
	FilterExpression string
	Searches         OneOrMany[searching.SearchInput]
	Orders           OneOrMany[ordering.Ordering]
	Offset           *int
	Limit            *int
	IsHighlight      bool
	TrackTotalHits   bool
}

type queryArgsInput struct {
	Filters          OneOrMany[filtering.FilterInput] `json:"filters"`
	FilterExpression string                           `json:"filter"`
	Searches         OneOrMany[searching.SearchInput] `json:"searches"`
	Orders           OneOrMany[ordering.Ordering]     `json:"orders"`
	Offset           *int                             `json:"offset"`
	Limit            *int                             `json:"limit"`
	IsHighlight      bool                             `json:"isHighlight"`
	TrackTotalHits   bool                             `json:"track_total_hits"`
}

// DecodeQueryArgs reads query arguments from their JSON form
func DecodeQueryArgs(r io.Reader) (*QueryArgs, error) {
	input := &queryArgsInput{}
	if err := json.NewDecoder(r).Decode(input); err != nil {
		return nil, fmt.Errorf("error decoding query arguments: %s", err)
	}

	filters := OneOrMany[filtering.Filter]{IsList: input.Filters.IsList}
	for i := range input.Filters.Items {
		filters.Items = append(filters.Items, input.Filters.Items[i].Filter())
	}

	return &QueryArgs{
		Filters:          filters,
		FilterExpression: input.FilterExpression,
		Searches:         input.Searches,
		Orders:           input.Orders,
		Offset:           input.Offset,
		Limit:            input.Limit,
		IsHighlight:      input.IsHighlight,
		TrackTotalHits:   input.TrackTotalHits,
	}, nil
}
