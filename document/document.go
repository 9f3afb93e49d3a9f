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

// Package document owns the mutation engine: it applies path-addressed
// operations to one JSON tree while preserving the document invariants.
// Every operation validates all of its targets before the first write,
// so a failed operation leaves the document unchanged.
package document

import (
	"github.com/keyspace-io/jsondoc/jsonpath"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// Document is a root value exclusively owned by one key. The generation
// counter is bumped on every successful mutation; iterators handed out
// by the shared API compare generations to detect invalidation.
type Document struct {
	root jsonvalue.Mutable
	gen  uint64
}

// New wraps a value as a document.
func New(root jsonvalue.Mutable) *Document {
	return &Document{root: root}
}

// Parse builds a document from a JSON text.
func Parse(data []byte, opts jsonvalue.ParseOptions) (*Document, error) {
	root, err := jsonvalue.Parse(data, opts)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Root exposes the document tree for reading.
func (d *Document) Root() jsonvalue.Value { return d.root }

// Generation returns the mutation counter.
func (d *Document) Generation() uint64 { return d.gen }

func (d *Document) touch() { d.gen++ }

// Get evaluates a query and returns the matched values.
func (d *Document) Get(q *jsonpath.Query) []jsonvalue.Value {
	return q.Eval(d.root)
}

// locate evaluates with trackers against the current tree.
func (d *Document) locate(q *jsonpath.Query) []jsonpath.Location {
	return q.Locate(d.root)
}

// mutableAt casts a located node back to the write capability set. The
// evaluator only ever walks the tree it was given, so the cast holds
// for every location produced from d.root.
func mutableAt(loc jsonpath.Location) jsonvalue.Mutable {
	return loc.Value.(jsonvalue.Mutable)
}

// resolveParent walks the tracker chain down to the parent of the
// addressed node and returns it with the final edge.
func (d *Document) resolveParent(edges []jsonpath.Edge) (jsonvalue.Mutable, jsonpath.Edge, bool) {
	if len(edges) == 0 {
		return nil, jsonpath.Edge{}, false
	}
	cur := d.root
	for _, e := range edges[:len(edges)-1] {
		var ok bool
		if e.IsKey {
			cur, ok = cur.ChildKey(e.Key)
		} else {
			cur, ok = cur.ChildIndex(e.Index)
		}
		if !ok {
			return nil, jsonpath.Edge{}, false
		}
	}
	return cur, edges[len(edges)-1], true
}

func typeName(v jsonvalue.Value) string { return v.TypeOf().Name() }
