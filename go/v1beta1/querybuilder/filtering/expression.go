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
	"strconv"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
	"github.com/google/cel-go/common/operators"
	"github.com/google/cel-go/common/overloads"
	"github.com/hashicorp/go-multierror"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

//go:generate mockgen -destination=../../../mocks/filterer.go -package=mocks github.com/rode/es-query-builder/go/v1beta1/querybuilder/filtering Filterer

// Filterer turns a textual filter expression into a filter tree
type Filterer interface {
	ParseExpression(filter string) (Filter, error)
}

type filterer struct{}

func NewFilterer() Filterer {
	return &filterer{}
}

const existsFunction = "exists"

var rangeOperators = map[string]Operator{
	operators.Greater:       OperatorGreater,
	operators.GreaterEquals: OperatorGreaterEquals,
	operators.Less:          OperatorLess,
	operators.LessEquals:    OperatorLessEquals,
}

// ParseExpression parses a CEL expression such as `name == "John" && age > 30` and hands the
// resulting tree to visit, which handles the recursive logic
func (f *filterer) ParseExpression(filter string) (Filter, error) {
	env, err := cel.NewEnv(
		cel.ClearMacros(),
		cel.Declarations(decls.NewFunction(
			existsFunction, decls.NewInstanceOverload(existsFunction, []*expr.Type{decls.Any}, decls.Bool))),
	)
	if err != nil {
		return nil, err
	}

	parsedExpr, issues := env.Parse(filter)
	if issues != nil && len(issues.Errors()) > 0 {
		resultErr := fmt.Errorf("error parsing filter")
		for _, e := range issues.Errors() {
			resultErr = multierror.Append(resultErr, fmt.Errorf("%s (%d:%d)", e.Message, e.Location.Line(), e.Location.Column()))
		}

		return nil, resultErr
	}

	maybeFilter, err := f.visit(parsedExpr.Expr())
	if err != nil {
		return nil, err
	}

	parsed, ok := maybeFilter.(Filter)
	if !ok {
		return nil, fmt.Errorf("expression %q is not a filter", filter)
	}

	return parsed, nil
}

func (f *filterer) visit(expression *expr.Expr) (interface{}, error) {
	switch expression.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return expression.GetIdentExpr().Name, nil
	case *expr.Expr_ConstExpr:
		return f.visitConst(expression)
	case *expr.Expr_SelectExpr:
		return f.visitSelect(expression)
	case *expr.Expr_ListExpr:
		return f.visitList(expression)
	case *expr.Expr_CallExpr:
		return f.visitCall(expression)
	default:
		return nil, fmt.Errorf("unrecognized expression: %v", expression)
	}
}

func (f *filterer) visitConst(expression *expr.Expr) (string, error) {
	constantExpr := expression.GetConstExpr()

	switch constantExpr.ConstantKind.(type) {
	case *expr.Constant_BoolValue:
		return strconv.FormatBool(constantExpr.GetBoolValue()), nil
	case *expr.Constant_StringValue:
		return constantExpr.GetStringValue(), nil
	case *expr.Constant_Int64Value:
		return strconv.FormatInt(constantExpr.GetInt64Value(), 10), nil
	case *expr.Constant_Uint64Value:
		return strconv.FormatUint(constantExpr.GetUint64Value(), 10), nil
	case *expr.Constant_DoubleValue:
		return strconv.FormatFloat(constantExpr.GetDoubleValue(), 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unrecognized constant kind %T", constantExpr.ConstantKind)
	}
}

func (f *filterer) visitSelect(expression *expr.Expr) (string, error) {
	selectExp := expression.GetSelectExpr()

	value, err := f.visit(selectExp.Operand)
	if err != nil {
		return "", err
	}
	operand, err := assertString(value)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s.%s", operand, selectExp.Field), nil
}

func (f *filterer) visitList(expression *expr.Expr) ([]string, error) {
	var values []string
	for _, element := range expression.GetListExpr().Elements {
		value, err := f.visit(element)
		if err != nil {
			return nil, err
		}
		stringValue, err := assertString(value)
		if err != nil {
			return nil, err
		}
		values = append(values, stringValue)
	}

	return values, nil
}

func (f *filterer) visitCall(expression *expr.Expr) (interface{}, error) {
	function := expression.GetCallExpr().Function
	switch function {
	case operators.LogicalAnd,
		operators.LogicalOr:
		return f.visitLogicalOperator(expression)
	case operators.Equals,
		operators.NotEquals,
		operators.Greater,
		operators.GreaterEquals,
		operators.Less,
		operators.LessEquals,
		operators.In:
		return f.visitComparison(expression)
	case overloads.Contains:
		return f.visitContains(expression)
	case existsFunction:
		return f.visitExists(expression)
	default:
		return nil, fmt.Errorf("unrecognized function: %s", function)
	}
}

func (f *filterer) visitBinaryArgs(expression *expr.Expr) (interface{}, interface{}, error) {
	args := expression.GetCallExpr().Args

	if len(args) != 2 {
		return nil, nil, fmt.Errorf("unexpected number of arguments to binary operator")
	}

	lhs, err := f.visit(args[0])
	if err != nil {
		return nil, nil, err
	}

	rhs, err := f.visit(args[1])
	if err != nil {
		return nil, nil, err
	}

	return lhs, rhs, nil
}

func (f *filterer) visitLogicalOperator(expression *expr.Expr) (Filter, error) {
	lhs, rhs, err := f.visitBinaryArgs(expression)
	if err != nil {
		return nil, err
	}

	left, err := assertFilter(lhs)
	if err != nil {
		return nil, err
	}
	right, err := assertFilter(rhs)
	if err != nil {
		return nil, err
	}

	if expression.GetCallExpr().Function == operators.LogicalAnd {
		return &Group{
			And: []Filter{left, right},
		}, nil
	}

	return &Group{
		Or: []Filter{left, right},
	}, nil
}

func (f *filterer) visitComparison(expression *expr.Expr) (Filter, error) {
	lhs, rhs, err := f.visitBinaryArgs(expression)
	if err != nil {
		return nil, err
	}

	key, err := assertString(lhs)
	if err != nil {
		return nil, err
	}

	function := expression.GetCallExpr().Function
	if function == operators.In {
		values, ok := rhs.([]string)
		if !ok {
			return nil, fmt.Errorf("expected the right side of 'in' to be a list but was %T", rhs)
		}

		return &Leaf{
			Key:      key,
			Operator: OperatorEquals,
			Values:   values,
		}, nil
	}

	value, err := assertString(rhs)
	if err != nil {
		return nil, err
	}

	operator := OperatorEquals
	if function == operators.NotEquals {
		operator = OperatorNotEquals
	} else if rangeOperator, ok := rangeOperators[function]; ok {
		operator = rangeOperator
	}

	return &Leaf{
		Key:      key,
		Operator: operator,
		Values:   []string{value},
	}, nil
}

func (f *filterer) visitContains(expression *expr.Expr) (Filter, error) {
	callExpr := expression.GetCallExpr()

	if len(callExpr.Args) != 1 {
		return nil, fmt.Errorf("invalid number of arguments")
	}

	target, err := f.visitTarget(callExpr)
	if err != nil {
		return nil, err
	}

	parsedArg, err := f.visit(callExpr.Args[0])
	if err != nil {
		return nil, err
	}
	arg, err := assertString(parsedArg)
	if err != nil {
		return nil, err
	}

	return &Leaf{
		Key:      target,
		Operator: OperatorContains,
		Values:   []string{arg},
	}, nil
}

func (f *filterer) visitExists(expression *expr.Expr) (Filter, error) {
	callExpr := expression.GetCallExpr()

	if len(callExpr.Args) != 0 {
		return nil, fmt.Errorf("invalid number of arguments")
	}

	target, err := f.visitTarget(callExpr)
	if err != nil {
		return nil, err
	}

	return &Leaf{
		Key:      target,
		Operator: OperatorExists,
	}, nil
}

func (f *filterer) visitTarget(callExpr *expr.Expr_Call) (string, error) {
	if callExpr.Target == nil {
		return "", fmt.Errorf("%s must be called on a field", callExpr.Function)
	}

	parsedTarget, err := f.visit(callExpr.Target)
	if err != nil {
		return "", err
	}

	return assertString(parsedTarget)
}

func assertString(value interface{}) (string, error) {
	stringValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected %[1]v to have type string but was %[1]T", value)
	}

	return stringValue, nil
}

func assertFilter(value interface{}) (Filter, error) {
	filter, ok := value.(Filter)
	if !ok {
		return nil, fmt.Errorf("expected %[1]v to be a filter but was %[1]T", value)
	}

	return filter, nil
}
