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

import "fmt"

type UnsupportedOperatorError struct {
	Operator Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported filter operator %q", e.Operator)
}

// InvalidRangeValueCountError is returned when a range operator is not given exactly one value
type InvalidRangeValueCountError struct {
	Key      string
	Operator Operator
	Count    int
}

func (e *InvalidRangeValueCountError) Error() string {
	return fmt.Sprintf("range operator %q on %q expects exactly one value, got %d", e.Operator, e.Key, e.Count)
}
