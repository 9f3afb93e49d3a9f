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

package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/keyspace-io/jsondoc/jsonpath"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// Number is an argument or result of the arithmetic operations,
// carrying the integer-exact flag through the engine.
type Number struct {
	IsInt bool
	I     int64
	F     float64
}

// ParseNumber accepts any JSON number literal.
func ParseNumber(s string) (Number, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Number{IsInt: true, I: i}, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, fmt.Errorf("value is not a number: %q", s)
	}
	return Number{F: f}, nil
}

func (n Number) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}

// Node renders the number as a tree node, Integer when exact.
func (n Number) Node() *jsonvalue.Node {
	if n.IsInt {
		return jsonvalue.NewInt(n.I)
	}
	return jsonvalue.NewFloat(n.F)
}

func numberOf(v jsonvalue.Value) Number {
	if v.TypeOf() == jsonvalue.Integer {
		return Number{IsInt: true, I: v.Int()}
	}
	return Number{F: v.Float()}
}

type arithOp int

const (
	opAdd arithOp = iota
	opMul
	opPow
)

// IncrBy adds n to every matched number and returns the new values in
// match order. Any non-number match fails the whole operation before
// the first write.
func (d *Document) IncrBy(q *jsonpath.Query, n Number) ([]Number, error) {
	return d.numOp(q, n, opAdd)
}

// MultBy multiplies every matched number by n.
func (d *Document) MultBy(q *jsonpath.Query, n Number) ([]Number, error) {
	return d.numOp(q, n, opMul)
}

// PowBy raises every matched number to the power n.
func (d *Document) PowBy(q *jsonpath.Query, n Number) ([]Number, error) {
	return d.numOp(q, n, opPow)
}

func (d *Document) numOp(q *jsonpath.Query, n Number, op arithOp) ([]Number, error) {
	locs := d.locate(q)
	if len(locs) == 0 {
		return nil, PathDoesNotExist{q.Source()}
	}
	for _, loc := range locs {
		if t := loc.Value.TypeOf(); t != jsonvalue.Integer && t != jsonvalue.Double {
			return nil, WrongType{"number", t.Name()}
		}
	}
	// validate: every result must be representable
	results := make([]Number, len(locs))
	for i, loc := range locs {
		r, err := applyArith(numberOf(loc.Value), n, op)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	for i, loc := range locs {
		mutableAt(loc).ReplaceWith(results[i].Node())
	}
	d.touch()
	return results, nil
}

// applyArith computes cur (op) arg. Integer operands stay on the exact
// integer path while the result fits; otherwise the computation runs in
// float64, collapsing back to Integer when no precision is lost. A
// non-finite float result fails with Overflow.
func applyArith(cur, arg Number, op arithOp) (Number, error) {
	if cur.IsInt && arg.IsInt && op != opPow {
		if r, ok := intArith(cur.I, arg.I, op); ok {
			return Number{IsInt: true, I: r}, nil
		}
	}
	var f float64
	switch op {
	case opAdd:
		f = cur.Float() + arg.Float()
	case opMul:
		f = cur.Float() * arg.Float()
	case opPow:
		f = math.Pow(cur.Float(), arg.Float())
	default:
		panic(fmt.Sprintf("internal error - unknown arith op: %d", op))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, Overflow{}
	}
	if isExactInt(f) {
		return Number{IsInt: true, I: int64(f)}, nil
	}
	return Number{F: f}, nil
}

func intArith(a, b int64, op arithOp) (int64, bool) {
	switch op {
	case opAdd:
		c := a + b
		if (b > 0 && c < a) || (b < 0 && c > a) {
			return 0, false
		}
		return c, true
	case opMul:
		if a == 0 || b == 0 {
			return 0, true
		}
		c := a * b
		if c/b != a {
			return 0, false
		}
		return c, true
	default:
		return 0, false
	}
}

// isExactInt reports whether f is an integral value within ±2^53, the
// range in which float64 represents every integer exactly.
func isExactInt(f float64) bool {
	if f != math.Trunc(f) {
		return false
	}
	if f < -9.007199254740992e15 || f > 9.007199254740992e15 {
		return false
	}
	return float64(int64(f)) == f
}

// Toggle flips every matched boolean and returns the new values.
func (d *Document) Toggle(q *jsonpath.Query) ([]bool, error) {
	locs := d.locate(q)
	if len(locs) == 0 {
		return nil, PathDoesNotExist{q.Source()}
	}
	for _, loc := range locs {
		if t := loc.Value.TypeOf(); t != jsonvalue.Bool {
			return nil, WrongType{"bool", t.Name()}
		}
	}
	results := make([]bool, len(locs))
	for i, loc := range locs {
		flipped := !loc.Value.BoolVal()
		mutableAt(loc).ReplaceWith(jsonvalue.NewBool(flipped))
		results[i] = flipped
	}
	d.touch()
	return results, nil
}
