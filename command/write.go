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

package command

import (
	"errors"
	"strings"

	"github.com/keyspace-io/jsondoc/document"
	"github.com/keyspace-io/jsondoc/format"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// setCmd implements JSON.SET key path json [NX|XX] [FORMAT STRING|JSON].
func (e *Engine) setCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 3 {
		return nil, WrongArity{cmd}
	}
	key, pathArg, valArg := args[0], args[1], args[2]

	mode := document.SetNone
	valFormat := "JSON"
	for i := 3; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "NX":
			mode = document.SetNotExists
		case "XX":
			mode = document.SetAlreadyExists
		case "FORMAT":
			if i+1 >= len(args) {
				return nil, WrongArity{cmd}
			}
			i++
			valFormat = strings.ToUpper(args[i])
		default:
			return nil, WrongFormat{"syntax error: " + args[i]}
		}
	}

	var val *jsonvalue.Node
	switch valFormat {
	case "JSON":
		parsed, err := e.parseValue(valArg)
		if err != nil {
			return nil, err
		}
		val = parsed
	case "STRING":
		val = jsonvalue.NewString(valArg)
	default:
		return nil, WrongFormat{"wrong format: " + valFormat}
	}

	q, err := e.compile(pathArg)
	if err != nil {
		return nil, err
	}

	doc, exists := e.ks.Get(key)
	if !exists {
		if mode == document.SetAlreadyExists {
			return NilReply{}, nil
		}
		if !q.IsRoot() {
			return nil, document.PathDoesNotExist{Path: pathArg}
		}
		e.ks.Put(key, document.New(e.newRoot(val)))
		e.notify("json.set", key)
		return OK, nil
	}

	if err := doc.Set(q, val, mode); err != nil {
		var already document.PathExists
		if errors.As(err, &already) {
			return NilReply{}, nil
		}
		var missing document.PathDoesNotExist
		if mode == document.SetAlreadyExists && errors.As(err, &missing) {
			return NilReply{}, nil
		}
		return nil, err
	}
	e.notify("json.set", key)
	return OK, nil
}

// mergeCmd implements JSON.MERGE key path json.
func (e *Engine) mergeCmd(cmd string, args []string) (Reply, error) {
	if len(args) != 3 {
		return nil, WrongArity{cmd}
	}
	key, pathArg, valArg := args[0], args[1], args[2]
	val, err := e.parseValue(valArg)
	if err != nil {
		return nil, err
	}
	q, err := e.compile(pathArg)
	if err != nil {
		return nil, err
	}

	doc, exists := e.ks.Get(key)
	if !exists {
		if !q.IsRoot() {
			return nil, NoSuchKey{key}
		}
		doc = document.New(e.newRoot(jsonvalue.NewObject()))
		if err := doc.Merge(q, val); err != nil {
			return nil, err
		}
		e.ks.Put(key, doc)
		e.notify("json.merge", key)
		return OK, nil
	}
	if err := doc.Merge(q, val); err != nil {
		return nil, err
	}
	e.notify("json.merge", key)
	return OK, nil
}

// delCmd implements JSON.DEL and JSON.FORGET: key [path].
func (e *Engine) delCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, WrongArity{cmd}
	}
	key := args[0]
	doc, exists := e.ks.Get(key)
	if !exists {
		return IntReply(0), nil
	}
	q, err := e.compile(pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if q.IsRoot() {
		e.ks.Delete(key)
		e.notify("json.del", key)
		return IntReply(1), nil
	}
	deleted := doc.Delete(q)
	if deleted > 0 {
		e.notify("json.del", key)
	}
	return IntReply(int64(deleted)), nil
}

// numIncrCmd implements JSON.NUMINCRBY key path number.
func (e *Engine) numIncrCmd(cmd string, args []string) (Reply, error) {
	return e.numCmd(cmd, args, (*document.Document).IncrBy, "json.numincrby")
}

// numMultCmd implements JSON.NUMMULTBY key path number.
func (e *Engine) numMultCmd(cmd string, args []string) (Reply, error) {
	return e.numCmd(cmd, args, (*document.Document).MultBy, "json.nummultby")
}

// numPowCmd implements JSON.NUMPOWBY key path number.
func (e *Engine) numPowCmd(cmd string, args []string) (Reply, error) {
	return e.numCmd(cmd, args, (*document.Document).PowBy, "json.numpowby")
}

type numOp func(d *document.Document, q *jsonpathQuery, n document.Number) ([]document.Number, error)

func (e *Engine) numCmd(cmd string, args []string, op numOp, event string) (Reply, error) {
	if len(args) != 3 {
		return nil, WrongArity{cmd}
	}
	key, pathArg, numArg := args[0], args[1], args[2]
	n, err := document.ParseNumber(numArg)
	if err != nil {
		return nil, WrongFormat{err.Error()}
	}
	doc, q, err := e.lookup(key, pathArg)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{key}
	}
	results, err := op(doc, q, n)
	if err != nil {
		return nil, err
	}
	e.notify(event, key)
	if q.IsLegacy() {
		return BulkReply(format.Serialize(results[0].Node())), nil
	}
	nodes := make([]jsonvalue.Value, len(results))
	for i, r := range results {
		nodes[i] = r.Node()
	}
	return BulkReply(format.SerializeMany(format.Compact, nodes)), nil
}

// toggleCmd implements JSON.TOGGLE key path.
func (e *Engine) toggleCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, WrongArity{cmd}
	}
	doc, q, err := e.lookup(args[0], pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{args[0]}
	}
	results, err := doc.Toggle(q)
	if err != nil {
		return nil, err
	}
	e.notify("json.toggle", args[0])
	if q.IsLegacy() {
		if results[0] {
			return BulkReply("true"), nil
		}
		return BulkReply("false"), nil
	}
	out := make(ArrayReply, len(results))
	for i, b := range results {
		if b {
			out[i] = IntReply(1)
		} else {
			out[i] = IntReply(0)
		}
	}
	return out, nil
}

// strAppendCmd implements JSON.STRAPPEND key [path] string. The string
// argument is a JSON string literal.
func (e *Engine) strAppendCmd(cmd string, args []string) (Reply, error) {
	var key, pathArg, valArg string
	switch len(args) {
	case 2:
		key, pathArg, valArg = args[0], "$", args[1]
	case 3:
		key, pathArg, valArg = args[0], args[1], args[2]
	default:
		return nil, WrongArity{cmd}
	}
	val, err := e.parseValue(valArg)
	if err != nil {
		return nil, err
	}
	if val.TypeOf() != jsonvalue.String {
		return nil, document.WrongType{Expected: "string", Found: val.TypeOf().Name()}
	}
	doc, q, err := e.lookup(key, pathArg)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{key}
	}
	lengths, err := doc.StrAppend(q, val.Str())
	if err != nil {
		return nil, err
	}
	e.notify("json.strappend", key)
	return shapeInts(q.IsLegacy(), lengths), nil
}

// arrAppendCmd implements JSON.ARRAPPEND key path json...
func (e *Engine) arrAppendCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 3 {
		return nil, WrongArity{cmd}
	}
	vs, err := e.parseValues(args[2:])
	if err != nil {
		return nil, err
	}
	doc, q, err := e.lookup(args[0], args[1])
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{args[0]}
	}
	lengths, err := doc.ArrAppend(q, vs)
	if err != nil {
		return nil, err
	}
	e.notify("json.arrappend", args[0])
	return shapeInts(q.IsLegacy(), lengths), nil
}

// arrInsertCmd implements JSON.ARRINSERT key path index json...
func (e *Engine) arrInsertCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 4 {
		return nil, WrongArity{cmd}
	}
	idx, err := parseIntArg(args[2])
	if err != nil {
		return nil, err
	}
	vs, err := e.parseValues(args[3:])
	if err != nil {
		return nil, err
	}
	doc, q, err := e.lookup(args[0], args[1])
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{args[0]}
	}
	lengths, err := doc.ArrInsert(q, vs, idx)
	if err != nil {
		return nil, err
	}
	e.notify("json.arrinsert", args[0])
	return shapeInts(q.IsLegacy(), lengths), nil
}

// arrPopCmd implements JSON.ARRPOP key [path [index]].
func (e *Engine) arrPopCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, WrongArity{cmd}
	}
	idx := -1
	if len(args) == 3 {
		var err error
		idx, err = parseIntArg(args[2])
		if err != nil {
			return nil, err
		}
	}
	doc, q, err := e.lookup(args[0], pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{args[0]}
	}
	popped, err := doc.ArrPop(q, idx)
	if err != nil {
		return nil, err
	}
	e.notify("json.arrpop", args[0])
	if q.IsLegacy() {
		return BulkReply(format.Serialize(popped[0])), nil
	}
	out := make(ArrayReply, len(popped))
	for i, v := range popped {
		out[i] = BulkReply(format.Serialize(v))
	}
	return out, nil
}

// arrTrimCmd implements JSON.ARRTRIM key path start stop.
func (e *Engine) arrTrimCmd(cmd string, args []string) (Reply, error) {
	if len(args) != 4 {
		return nil, WrongArity{cmd}
	}
	start, err := parseIntArg(args[2])
	if err != nil {
		return nil, err
	}
	stop, err := parseIntArg(args[3])
	if err != nil {
		return nil, err
	}
	doc, q, err := e.lookup(args[0], args[1])
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{args[0]}
	}
	lengths, err := doc.ArrTrim(q, start, stop)
	if err != nil {
		return nil, err
	}
	e.notify("json.arrtrim", args[0])
	return shapeInts(q.IsLegacy(), lengths), nil
}

// clearCmd implements JSON.CLEAR key [path].
func (e *Engine) clearCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, WrongArity{cmd}
	}
	doc, q, err := e.lookup(args[0], pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{args[0]}
	}
	cleared := doc.Clear(q)
	if cleared > 0 {
		e.notify("json.clear", args[0])
	}
	return IntReply(int64(cleared)), nil
}

// lookup compiles the path and fetches the document; a nil document
// with nil error means the key does not exist.
func (e *Engine) lookup(key, pathArg string) (*document.Document, *jsonpathQuery, error) {
	q, err := e.compile(pathArg)
	if err != nil {
		return nil, nil, err
	}
	doc, exists := e.ks.Get(key)
	if !exists {
		return nil, q, nil
	}
	return doc, q, nil
}

func (e *Engine) parseValues(texts []string) ([]jsonvalue.Mutable, error) {
	out := make([]jsonvalue.Mutable, len(texts))
	for i, t := range texts {
		v, err := e.parseValue(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func shapeInts(legacy bool, vals []int) Reply {
	if legacy {
		return IntReply(int64(vals[0]))
	}
	out := make(ArrayReply, len(vals))
	for i, v := range vals {
		out[i] = IntReply(int64(v))
	}
	return out
}
