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

// Package shared exports read access for sibling modules: opaque
// handles over documents and iterators over query results. Iterators
// are pinned to the document generation they were produced from and
// refuse to advance once the document has been mutated.
package shared

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/keyspace-io/jsondoc/command"
	"github.com/keyspace-io/jsondoc/document"
	"github.com/keyspace-io/jsondoc/format"
	"github.com/keyspace-io/jsondoc/jsonpath"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// ErrStaleIterator reports use of an iterator after the underlying
// document was mutated.
var ErrStaleIterator = errors.New("iterator invalidated by document mutation")

// ErrNoSuchKey reports an open of a key that holds no document.
var ErrNoSuchKey = errors.New("no such key")

// IsJSON reports whether key holds a document.
func IsJSON(ks command.Keyspace, key string) bool {
	_, ok := ks.Get(key)
	return ok
}

// Handle is an opaque reference to one opened document.
type Handle struct {
	ID  uuid.UUID
	doc *document.Document
}

// OpenKey opens a read handle over the document at key.
func OpenKey(ctx context.Context, ks command.Keyspace, key string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, ok := ks.Get(key)
	if !ok {
		return nil, ErrNoSuchKey
	}
	return &Handle{ID: uuid.New(), doc: doc}, nil
}

// Get evaluates a path over the handle's document and returns an
// iterator over the matches.
func (h *Handle) Get(path string) (*Iterator, error) {
	q, err := jsonpath.Compile(path)
	if err != nil {
		return nil, err
	}
	return &Iterator{
		handle:  h,
		results: q.Eval(h.doc.Root()),
		gen:     h.doc.Generation(),
	}, nil
}

// At returns the i-th match of the most general query, the document
// root itself for i == 0.
func (h *Handle) At(i int) (jsonvalue.Value, bool) {
	if i != 0 {
		return nil, false
	}
	return h.doc.Root(), true
}

// Iterator walks the matches of one query, in evaluation order.
type Iterator struct {
	handle  *Handle
	results []jsonvalue.Value
	pos     int
	gen     uint64
}

// Len returns the number of matches.
func (it *Iterator) Len() int { return len(it.results) }

// Next returns the next match. It fails once the document has been
// mutated since the iterator was produced.
func (it *Iterator) Next() (jsonvalue.Value, error) {
	if it.gen != it.handle.doc.Generation() {
		return nil, ErrStaleIterator
	}
	if it.pos >= len(it.results) {
		return nil, nil
	}
	v := it.results[it.pos]
	it.pos++
	return v, nil
}

// Reset rewinds the iterator to the first match.
func (it *Iterator) Reset() { it.pos = 0 }

// JSON serialises the remaining matches as one JSON array.
func (it *Iterator) JSON() ([]byte, error) {
	if it.gen != it.handle.doc.Generation() {
		return nil, ErrStaleIterator
	}
	return format.SerializeMany(format.Compact, it.results[it.pos:]), nil
}

// Typed getters over values returned by the iterator. Each reports
// false when the value is not of the asked-for kind.

func TypeOf(v jsonvalue.Value) jsonvalue.Type { return v.TypeOf() }

func Len(v jsonvalue.Value) (int, bool) { return v.Len() }

func Int(v jsonvalue.Value) (int64, bool) {
	if v.TypeOf() != jsonvalue.Integer {
		return 0, false
	}
	return v.Int(), true
}

func Float(v jsonvalue.Value) (float64, bool) {
	switch v.TypeOf() {
	case jsonvalue.Double:
		return v.Float(), true
	case jsonvalue.Integer:
		return float64(v.Int()), true
	default:
		return 0, false
	}
}

func Bool(v jsonvalue.Value) (bool, bool) {
	if v.TypeOf() != jsonvalue.Bool {
		return false, false
	}
	return v.BoolVal(), true
}

func Str(v jsonvalue.Value) (string, bool) {
	if v.TypeOf() != jsonvalue.String {
		return "", false
	}
	return v.Str(), true
}
