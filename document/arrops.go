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
	"github.com/keyspace-io/jsondoc/jsonpath"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// normalizeIndex maps i into [0, length-1]:
// negative indices count from the end, saturating at 0; non-negative
// indices saturate at length-1.
func normalizeIndex(i, length int) int {
	if i < 0 {
		if -i > length {
			return 0
		}
		return length + i
	}
	if length == 0 {
		return 0
	}
	if i > length-1 {
		return length - 1
	}
	return i
}

// normalizeRange maps an inclusive-start, exclusive-end scan range onto
// [0, length]: stop of 0 means the whole tail, a negative stop counts
// from the end.
func normalizeRange(start, stop, length int) (int, int) {
	start = normalizeIndex(start, length)
	switch {
	case stop == 0:
		stop = length
	case stop < 0:
		stop += length
		if stop < 0 {
			stop = 0
		}
	case stop > length:
		stop = length
	}
	return start, stop
}

// StrAppend concatenates s onto every matched string and returns the
// new lengths.
func (d *Document) StrAppend(q *jsonpath.Query, s string) ([]int, error) {
	locs, err := d.typedTargets(q, jsonvalue.String, "string")
	if err != nil {
		return nil, err
	}
	lengths := make([]int, len(locs))
	for i, loc := range locs {
		appended := loc.Value.Str() + s
		mutableAt(loc).ReplaceWith(jsonvalue.NewString(appended))
		lengths[i] = len(appended)
	}
	d.touch()
	return lengths, nil
}

// ArrAppend pushes the values, in order, onto every matched array and
// returns the new lengths.
func (d *Document) ArrAppend(q *jsonpath.Query, vs []jsonvalue.Mutable) ([]int, error) {
	locs, err := d.typedTargets(q, jsonvalue.Array, "array")
	if err != nil {
		return nil, err
	}
	lengths := make([]int, len(locs))
	for i, loc := range locs {
		target := mutableAt(loc)
		length, _ := target.Len()
		target.InsertAt(length, cloneAll(vs)...)
		lengths[i] = length + len(vs)
	}
	d.touch()
	return lengths, nil
}

// ArrInsert inserts the values before index idx of every matched array.
// Negative indices count from the end; an index past the end clamps to
// an append, but an index before -len is out of range.
func (d *Document) ArrInsert(q *jsonpath.Query, vs []jsonvalue.Mutable, idx int) ([]int, error) {
	locs, err := d.typedTargets(q, jsonvalue.Array, "array")
	if err != nil {
		return nil, err
	}
	positions := make([]int, len(locs))
	for i, loc := range locs {
		length, _ := loc.Value.Len()
		pos := idx
		if pos < 0 {
			pos += length
			if pos < 0 {
				return nil, IndexOutOfRange{idx}
			}
		}
		if pos > length {
			pos = length
		}
		positions[i] = pos
	}
	lengths := make([]int, len(locs))
	for i, loc := range locs {
		target := mutableAt(loc)
		target.InsertAt(positions[i], cloneAll(vs)...)
		length, _ := target.Len()
		lengths[i] = length
	}
	d.touch()
	return lengths, nil
}

// ArrPop removes and returns the element at the normalised index of
// every matched array; idx -1 pops the last element.
func (d *Document) ArrPop(q *jsonpath.Query, idx int) ([]jsonvalue.Value, error) {
	locs, err := d.typedTargets(q, jsonvalue.Array, "array")
	if err != nil {
		return nil, err
	}
	for _, loc := range locs {
		if length, _ := loc.Value.Len(); length == 0 {
			return nil, EmptyArray{}
		}
	}
	popped := make([]jsonvalue.Value, len(locs))
	for i, loc := range locs {
		target := mutableAt(loc)
		length, _ := target.Len()
		removed, _ := target.RemoveAt(normalizeIndex(idx, length))
		popped[i] = removed
	}
	d.touch()
	return popped, nil
}

// ArrTrim keeps the inclusive [start, stop] range of every matched
// array; a normalised start past stop empties the array. Returns the
// new lengths.
func (d *Document) ArrTrim(q *jsonpath.Query, start, stop int) ([]int, error) {
	locs, err := d.typedTargets(q, jsonvalue.Array, "array")
	if err != nil {
		return nil, err
	}
	lengths := make([]int, len(locs))
	for i, loc := range locs {
		target := mutableAt(loc)
		length, _ := target.Len()
		target.KeepRange(normalizeIndex(start, length), normalizeIndex(stop, length))
		newLen, _ := target.Len()
		lengths[i] = newLen
	}
	d.touch()
	return lengths, nil
}

// ArrIndex scans every matched array for the first element equal to v
// inside the normalised [start, stop) range, reporting -1 when absent.
// A read: the document is untouched.
func (d *Document) ArrIndex(q *jsonpath.Query, v jsonvalue.Value, start, stop int) ([]int, error) {
	locs, err := d.typedTargets(q, jsonvalue.Array, "array")
	if err != nil {
		return nil, err
	}
	found := make([]int, len(locs))
	for i, loc := range locs {
		length, _ := loc.Value.Len()
		from, to := normalizeRange(start, stop, length)
		found[i] = -1
		for j := from; j < to; j++ {
			elem, _ := loc.Value.Index(j)
			if jsonvalue.Equal(elem, v) {
				found[i] = j
				break
			}
		}
	}
	return found, nil
}

// Clear empties every matched container and zeroes every matched
// number; strings, booleans, and nulls are untouched. Returns the
// number of values affected.
func (d *Document) Clear(q *jsonpath.Query) int {
	cleared := 0
	for _, loc := range d.locate(q) {
		target := mutableAt(loc)
		switch target.TypeOf() {
		case jsonvalue.Object:
			for _, k := range append([]string(nil), target.Keys()...) {
				target.RemoveKey(k)
			}
			cleared++
		case jsonvalue.Array:
			target.KeepRange(1, 0) // start > stop empties
			cleared++
		case jsonvalue.Integer, jsonvalue.Double:
			target.ReplaceWith(jsonvalue.NewInt(0))
			cleared++
		}
	}
	if cleared > 0 {
		d.touch()
	}
	return cleared
}

// typedTargets locates the matches and validates that every one has the
// wanted type before anything is written.
func (d *Document) typedTargets(q *jsonpath.Query, want jsonvalue.Type, wantName string) ([]jsonpath.Location, error) {
	locs := d.locate(q)
	if len(locs) == 0 {
		return nil, PathDoesNotExist{q.Source()}
	}
	for _, loc := range locs {
		if loc.Value.TypeOf() != want {
			return nil, WrongType{wantName, typeName(loc.Value)}
		}
	}
	return locs, nil
}

func cloneAll(vs []jsonvalue.Mutable) []jsonvalue.Mutable {
	out := make([]jsonvalue.Mutable, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}
