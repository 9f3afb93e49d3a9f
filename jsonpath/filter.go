/*
Copyright 2022 The jsondoc Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package jsonpath

import (
	"fmt"
	"math"

	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// evalFilter decides whether a candidate node passes a filter. A bare
// subpath is an existence test: '?(@.x)' is true when '@.x' resolves,
// even to null.
func (ev *evaluator) evalFilter(expr filterExpr, candidate jsonvalue.Value) bool {
	switch e := expr.(type) {
	case *subpathExpr:
		return len(ev.resolveSubpath(e, candidate)) > 0
	case *logicalExpr:
		left := ev.evalFilter(e.left, candidate)
		switch e.op {
		case notOp:
			return !left
		case andOp:
			return left && ev.evalFilter(e.right, candidate)
		case orOp:
			return left || ev.evalFilter(e.right, candidate)
		default:
			panic(fmt.Sprintf("internal error - unknown logical operator: %s", e.op))
		}
	case *compareExpr:
		return ev.evalCompare(e, candidate)
	case *boolLiteral:
		return e.val
	case *stringLiteral, *intLiteral, *floatLiteral, *nullLiteral:
		// a lone non-bool literal selects nothing
		return false
	default:
		panic(fmt.Sprintf("internal error - unknown filterExpr type: %#v", expr))
	}
}

func (ev *evaluator) resolveSubpath(e *subpathExpr, candidate jsonvalue.Value) []jsonvalue.Value {
	root := ev.root
	if e.query.relative {
		root = candidate
	}
	return e.query.Eval(root)
}

// resolveOperand reduces a comparison operand to a single value. A
// subpath yields its first match; an unresolved subpath yields nothing.
func (ev *evaluator) resolveOperand(expr filterExpr, candidate jsonvalue.Value) (jsonvalue.Value, bool) {
	switch e := expr.(type) {
	case *subpathExpr:
		results := ev.resolveSubpath(e, candidate)
		if len(results) == 0 {
			return nil, false
		}
		return results[0], true
	case *stringLiteral:
		return jsonvalue.NewString(e.val), true
	case *intLiteral:
		return jsonvalue.NewInt(e.val), true
	case *floatLiteral:
		return jsonvalue.NewFloat(e.val), true
	case *boolLiteral:
		return jsonvalue.NewBool(e.val), true
	case *nullLiteral:
		return jsonvalue.NewNull(), true
	default:
		return nil, false
	}
}

// evalCompare applies the comparison semantics: numbers compare
// numerically across Integer/Double, strings lexicographically, and
// mixed-family operands never compare true, whatever the operator.
func (ev *evaluator) evalCompare(e *compareExpr, candidate jsonvalue.Value) bool {
	left, lok := ev.resolveOperand(e.left, candidate)
	if !lok {
		return false
	}
	right, rok := ev.resolveOperand(e.right, candidate)
	if !rok {
		return false
	}

	if e.op == matchOp {
		if left.TypeOf() != jsonvalue.String || e.pattern == nil {
			return false
		}
		return e.pattern.MatchString(left.Str())
	}

	lt, rt := left.TypeOf(), right.TypeOf()
	switch {
	case isNumberType(lt) && isNumberType(rt):
		return compareFloat(numAsFloat(left), numAsFloat(right), e.op)
	case lt == jsonvalue.String && rt == jsonvalue.String:
		return compareString(left.Str(), right.Str(), e.op)
	case lt == jsonvalue.Bool && rt == jsonvalue.Bool:
		return compareEqOnly(left.BoolVal() == right.BoolVal(), e.op)
	case lt == jsonvalue.Null && rt == jsonvalue.Null:
		return compareEqOnly(true, e.op)
	case lt == rt: // Array or Object
		return compareEqOnly(jsonvalue.Equal(left, right), e.op)
	default:
		// mixed families are never comparable - not even for equality
		return false
	}
}

func isNumberType(t jsonvalue.Type) bool {
	return t == jsonvalue.Integer || t == jsonvalue.Double
}

func numAsFloat(v jsonvalue.Value) float64 {
	if v.TypeOf() == jsonvalue.Integer {
		return float64(v.Int())
	}
	return v.Float()
}

func compareFloat(l, r float64, op comparisonOp) bool {
	if math.IsNaN(l) || math.IsNaN(r) {
		return false
	}
	switch op {
	case eqOp:
		return l == r
	case neOp:
		return l != r
	case ltOp:
		return l < r
	case leOp:
		return l <= r
	case gtOp:
		return l > r
	case geOp:
		return l >= r
	default:
		panic(fmt.Sprintf("internal error - unknown compare-operator: %s", op))
	}
}

func compareString(l, r string, op comparisonOp) bool {
	switch op {
	case eqOp:
		return l == r
	case neOp:
		return l != r
	case ltOp:
		return l < r
	case leOp:
		return l <= r
	case gtOp:
		return l > r
	case geOp:
		return l >= r
	default:
		panic(fmt.Sprintf("internal error - unknown compare-operator: %s", op))
	}
}

// compareEqOnly handles the kinds where only equality is defined;
// ordering operators are false for them.
func compareEqOnly(equal bool, op comparisonOp) bool {
	switch op {
	case eqOp:
		return equal
	case neOp:
		return !equal
	default:
		return false
	}
}
