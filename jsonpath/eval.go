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

	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// Eval executes the query against a document root and returns the
// matched values in evaluation order: union selectors contribute their
// matches in the order they are written, descent visits nodes in
// pre-order. Missing keys and out-of-range
// indices produce no result; evaluation itself never fails.
func (q *Query) Eval(root jsonvalue.Value) []jsonvalue.Value {
	locs := q.Locate(root)
	out := make([]jsonvalue.Value, len(locs))
	for i, l := range locs {
		out[i] = l.Value
	}
	return out
}

// Locate executes the query and returns every match with its tracker.
// Results of queries containing recursive descent are deduplicated by
// node identity (the tracker chain).
func (q *Query) Locate(root jsonvalue.Value) []Location {
	ev := &evaluator{root: root}
	for _, s := range q.segments {
		if s.typ == descendantSegment {
			ev.seen = map[string]struct{}{}
			break
		}
	}
	ev.walk(q.segments, root, nil)
	return ev.out
}

type evaluator struct {
	root jsonvalue.Value
	seen map[string]struct{}
	out  []Location
}

func (ev *evaluator) walk(segs []*segment, v jsonvalue.Value, edges []Edge) {
	if len(segs) == 0 {
		ev.emit(v, edges)
		return
	}
	seg := segs[0]
	switch seg.typ {
	case childSegment:
		ev.applySegment(seg, segs[1:], v, edges)
	case descendantSegment:
		ev.descend(seg, segs[1:], v, edges)
	default:
		panic(fmt.Sprintf("internal error - unknown segment type: %d", seg.typ))
	}
}

func (ev *evaluator) emit(v jsonvalue.Value, edges []Edge) {
	loc := Location{Edges: append([]Edge(nil), edges...), Value: v}
	if ev.seen != nil {
		id := loc.Path()
		if _, dup := ev.seen[id]; dup {
			return
		}
		ev.seen[id] = struct{}{}
	}
	ev.out = append(ev.out, loc)
}

// applySegment applies every selector of a child segment in source
// order; union results are concatenated.
func (ev *evaluator) applySegment(seg *segment, rest []*segment, v jsonvalue.Value, edges []Edge) {
	for _, sel := range seg.selectors {
		ev.applySelector(sel, rest, v, edges)
	}
}

func (ev *evaluator) applySelector(sel selector, rest []*segment, v jsonvalue.Value, edges []Edge) {
	switch s := sel.(type) {
	case wildcardSelector:
		ev.eachChild(v, edges, func(child jsonvalue.Value, childEdges []Edge) {
			ev.walk(rest, child, childEdges)
		})
	case nameSelector:
		if child, ok := v.Key(s.name); ok {
			ev.walk(rest, child, append(edges, keyEdge(s.name)))
		}
	case indexSelector:
		if v.TypeOf() != jsonvalue.Array {
			return
		}
		length, _ := v.Len()
		i := s.index
		if i < 0 {
			i += length
		}
		if child, ok := v.Index(i); ok {
			ev.walk(rest, child, append(edges, indexEdge(i)))
		}
	case sliceSelector:
		ev.applySlice(s, rest, v, edges)
	case filterSelector:
		ev.eachChild(v, edges, func(child jsonvalue.Value, childEdges []Edge) {
			if ev.evalFilter(s.expr, child) {
				ev.walk(rest, child, childEdges)
			}
		})
	default:
		panic(fmt.Sprintf("internal error - unknown selector type: %#v", sel))
	}
}

// eachChild visits array elements in index order and object members in
// insertion order. Scalars have no children.
func (ev *evaluator) eachChild(v jsonvalue.Value, edges []Edge, visit func(jsonvalue.Value, []Edge)) {
	switch v.TypeOf() {
	case jsonvalue.Array:
		for i, child := range v.Values() {
			visit(child, append(edges, indexEdge(i)))
		}
	case jsonvalue.Object:
		for _, it := range v.Items() {
			visit(it.Value, append(edges, keyEdge(it.Key)))
		}
	}
}

// applySlice walks the half-open [start:end:step) range. Negative
// indices count from the end; start is clamped into [0, len-1], a
// negative end into [0, len]. A negative step iterates from start down
// to end exclusive.
func (ev *evaluator) applySlice(s sliceSelector, rest []*segment, v jsonvalue.Value, edges []Edge) {
	if v.TypeOf() != jsonvalue.Array {
		return
	}
	length, _ := v.Len()
	if length == 0 {
		return
	}

	step := s.step
	var start, end int
	if step > 0 {
		start, end = 0, length
	} else {
		start, end = length-1, -1
	}
	if s.start.isDefined {
		start = s.start.intValue
		if start < 0 {
			start += length
		}
		if start < 0 {
			start = 0
		}
		if start > length-1 {
			start = length - 1
		}
	}
	if s.end.isDefined {
		end = s.end.intValue
		if end < 0 {
			end += length
			if end < 0 {
				end = 0
			}
		}
	}

	for i := start; (step > 0 && i < end && i < length) || (step < 0 && i > end && i >= 0); i += step {
		child, ok := v.Index(i)
		if !ok {
			break
		}
		ev.walk(rest, child, append(edges, indexEdge(i)))
	}
}

// descend performs the pre-order traversal of '..': selectors are
// applied at the current node first, then at every descendant in
// document order.
func (ev *evaluator) descend(seg *segment, rest []*segment, v jsonvalue.Value, edges []Edge) {
	ev.applySegment(&segment{childSegment, seg.selectors}, rest, v, edges)
	ev.eachChild(v, edges, func(child jsonvalue.Value, childEdges []Edge) {
		ev.descend(seg, rest, child, childEdges)
	})
}
