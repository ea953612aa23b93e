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

package ordering

import "github.com/rode/es-query-builder/go/v1beta1/querybuilder/esutil"

type Ordering struct {
	Key   string           `json:"key"`
	Value esutil.SortOrder `json:"value"`
}

// CompileOrder turns orderings into single-field sort directives, keeping their order
// and directions as given
func CompileOrder(orderings []Ordering) esutil.Sort {
	if len(orderings) == 0 {
		return nil
	}

	sort := make(esutil.Sort, len(orderings))
	for i, ordering := range orderings {
		sort[i] = map[string]esutil.SortOrder{
			ordering.Key: ordering.Value,
		}
	}

	return sort
}
