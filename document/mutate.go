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
	"sort"

	"github.com/keyspace-io/jsondoc/jsonpath"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// SetMode selects the existence requirement of a Set.
type SetMode int

const (
	SetNone SetMode = iota
	SetNotExists
	SetAlreadyExists
	SetMergeExisting
)

// Set replaces the node at every match with a deep copy of v. With no
// match, a legacy path whose parent chain resolves to a single object
// gets its terminal key inserted; modern paths never auto-vivify.
func (d *Document) Set(q *jsonpath.Query, v jsonvalue.Mutable, mode SetMode) error {
	if q.IsRoot() {
		if mode == SetNotExists {
			return PathExists{q.Source()}
		}
		if mode == SetMergeExisting {
			mergeInPlace(d.root, v)
		} else {
			d.root.ReplaceWith(v.Clone())
		}
		d.touch()
		return nil
	}

	locs := d.locate(q)
	if len(locs) > 0 {
		if mode == SetNotExists {
			return PathExists{q.Source()}
		}
		for _, loc := range locs {
			target := mutableAt(loc)
			if mode == SetMergeExisting {
				mergeInPlace(target, v)
			} else {
				target.ReplaceWith(v.Clone())
			}
		}
		d.touch()
		return nil
	}

	// no match
	if mode == SetAlreadyExists {
		return PathDoesNotExist{q.Source()}
	}
	return d.vivify(q, v)
}

// vivify inserts the terminal key of a static legacy path whose parent
// chain exists.
func (d *Document) vivify(q *jsonpath.Query, v jsonvalue.Mutable) error {
	if !q.IsLegacy() {
		return PathDoesNotExist{q.Source()}
	}
	parent, key, ok := q.ParentKey()
	if !ok {
		return PathDoesNotExist{q.Source()}
	}
	parents := d.locate(parent)
	if len(parents) != 1 {
		return PathDoesNotExist{q.Source()}
	}
	target := mutableAt(parents[0])
	if target.TypeOf() != jsonvalue.Object {
		return WrongType{"object", typeName(target)}
	}
	target.SetKey(key, v.Clone())
	d.touch()
	return nil
}

// Merge applies an RFC 7396 merge patch at every match: object members
// overwrite, null members delete, a non-object patch replaces the
// target. With no match the terminal key is inserted like Set.
func (d *Document) Merge(q *jsonpath.Query, patch jsonvalue.Mutable) error {
	if q.IsRoot() {
		mergeInPlace(d.root, patch)
		d.touch()
		return nil
	}
	locs := d.locate(q)
	if len(locs) == 0 {
		return d.vivify(q, stripNulls(patch))
	}
	for _, loc := range locs {
		mergeInPlace(mutableAt(loc), patch)
	}
	d.touch()
	return nil
}

func mergeInPlace(target, patch jsonvalue.Mutable) {
	if patch.TypeOf() != jsonvalue.Object || target.TypeOf() != jsonvalue.Object {
		target.ReplaceWith(stripNulls(patch))
		return
	}
	for _, it := range patch.Items() {
		member := it.Value.(jsonvalue.Mutable)
		if member.TypeOf() == jsonvalue.Null {
			target.RemoveKey(it.Key)
			continue
		}
		if existing, ok := target.ChildKey(it.Key); ok && existing.TypeOf() == jsonvalue.Object && member.TypeOf() == jsonvalue.Object {
			mergeInPlace(existing, member)
			continue
		}
		target.SetKey(it.Key, stripNulls(member))
	}
}

// stripNulls deep-copies a patch value, dropping null object members.
// Applies when a patch lands where nothing existed before (RFC 7396:
// nulls only delete, they are never stored).
func stripNulls(patch jsonvalue.Mutable) jsonvalue.Mutable {
	if patch.TypeOf() != jsonvalue.Object {
		return patch.Clone()
	}
	out := newLike(patch)
	for _, it := range patch.Items() {
		member := it.Value.(jsonvalue.Mutable)
		if member.TypeOf() == jsonvalue.Null {
			continue
		}
		out.SetKey(it.Key, stripNulls(member))
	}
	return out
}

// newLike returns an empty object of the same backing as v.
func newLike(v jsonvalue.Mutable) jsonvalue.Mutable {
	switch v.(type) {
	case *jsonvalue.CompactNode:
		return jsonvalue.FromTree(jsonvalue.NewObject())
	default:
		return jsonvalue.NewObject()
	}
}

// Delete removes every match and returns the count. Matches are removed
// deepest first, and right-to-left within one parent, so sibling array
// indices collected earlier stay valid. The document root itself is
// never removed here; deleting a whole key is the host's business.
func (d *Document) Delete(q *jsonpath.Query) int {
	locs := d.locate(q)
	targets := locs[:0]
	for _, loc := range locs {
		if len(loc.Edges) > 0 {
			targets = append(targets, loc)
		}
	}
	if len(targets) == 0 {
		return 0
	}

	sort.SliceStable(targets, func(i, j int) bool {
		a, b := targets[i].Edges, targets[j].Edges
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		for k := range a {
			if a[k].IsKey != b[k].IsKey {
				return a[k].IsKey
			}
			if a[k].IsKey {
				if a[k].Key != b[k].Key {
					return a[k].Key > b[k].Key
				}
			} else if a[k].Index != b[k].Index {
				return a[k].Index > b[k].Index
			}
		}
		return false
	})

	deleted := 0
	for _, loc := range targets {
		parent, last, ok := d.resolveParent(loc.Edges)
		if !ok {
			continue
		}
		if last.IsKey {
			if _, removed := parent.RemoveKey(last.Key); removed {
				deleted++
			}
		} else {
			if _, removed := parent.RemoveAt(last.Index); removed {
				deleted++
			}
		}
	}
	if deleted > 0 {
		d.touch()
	}
	return deleted
}
