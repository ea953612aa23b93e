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

type Operator string

const (
	OperatorEquals        Operator = "eq"
	OperatorNotEquals     Operator = "ne"
	OperatorContains      Operator = "contains"
	OperatorGreater       Operator = "gt"
	OperatorGreaterEquals Operator = "gte"
	OperatorLess          Operator = "lt"
	OperatorLessEquals    Operator = "lte"
	OperatorExists        Operator = "exists"
)

// ClauseKind is the Elasticsearch clause an operator compiles to
type ClauseKind string

const (
	TermClause        ClauseKind = "term"
	NegatedTermClause ClauseKind = "must_not.term"
	PhraseClause      ClauseKind = "match_phrase"
	RangeClause       ClauseKind = "range"
	ExistsClause      ClauseKind = "exists"
)

var clauseKinds = map[Operator]ClauseKind{
	OperatorEquals:        TermClause,
	OperatorNotEquals:     NegatedTermClause,
	OperatorContains:      PhraseClause,
	OperatorGreater:       RangeClause,
	OperatorGreaterEquals: RangeClause,
	OperatorLess:          RangeClause,
	OperatorLessEquals:    RangeClause,
	OperatorExists:        ExistsClause,
}

// ClauseKindOf maps an operator to the clause kind it compiles to
func ClauseKindOf(operator Operator) (ClauseKind, error) {
	kind, ok := clauseKinds[operator]
	if !ok {
		return "", &UnsupportedOperatorError{Operator: operator}
	}

	return kind, nil
}
