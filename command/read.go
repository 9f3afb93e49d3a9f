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
	"bytes"
	"strings"

	"github.com/keyspace-io/jsondoc/document"
	"github.com/keyspace-io/jsondoc/format"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// getCmd implements
// JSON.GET key [INDENT s] [SPACE s] [NEWLINE s] [NOESCAPE] [path ...].
func (e *Engine) getCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 {
		return nil, WrongArity{cmd}
	}
	key := args[0]

	var f format.Formatter
	var paths []string
	for i := 1; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "INDENT":
			if i+1 >= len(args) {
				return nil, WrongArity{cmd}
			}
			i++
			f.Indent = args[i]
		case "SPACE":
			if i+1 >= len(args) {
				return nil, WrongArity{cmd}
			}
			i++
			f.Space = args[i]
		case "NEWLINE":
			if i+1 >= len(args) {
				return nil, WrongArity{cmd}
			}
			i++
			f.Newline = args[i]
		case "NOESCAPE":
			// legacy no-op, kept for compatibility
		default:
			paths = append(paths, args[i])
		}
	}
	if len(paths) == 0 {
		paths = []string{"$"}
	}

	doc, exists := e.ks.Get(key)
	if !exists {
		return NilReply{}, nil
	}

	if len(paths) == 1 {
		text, err := e.getOne(doc, paths[0], f)
		if err != nil {
			return nil, err
		}
		return BulkReply(text), nil
	}

	// multi-path replies are shaped by the reply format knob
	texts := make([][]byte, len(paths))
	for i, p := range paths {
		text, err := e.getOne(doc, p, f)
		if err != nil {
			return nil, err
		}
		texts[i] = text
	}
	switch e.replyFormat {
	case ReplyFormatStrings:
		out := make(ArrayReply, len(texts))
		for i, t := range texts {
			out[i] = BulkReply(t)
		}
		return out, nil
	case ReplyFormatExpand1, ReplyFormatExpand:
		depthLimit := 0
		if e.replyFormat == ReplyFormatExpand1 {
			depthLimit = 1
		}
		out := make(ArrayReply, 0, len(paths)*2)
		for _, p := range paths {
			q, err := e.compile(p)
			if err != nil {
				return nil, err
			}
			results := doc.Get(q)
			expanded := make(ArrayReply, len(results))
			for i, v := range results {
				expanded[i] = respValue(v, depthLimit)
			}
			out = append(out, BulkReply(p), expanded)
		}
		return out, nil
	default: // ReplyFormatString: one JSON object keyed by path
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, p := range paths {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(format.AppendQuoted(nil, p))
			buf.WriteByte(':')
			buf.Write(texts[i])
		}
		buf.WriteByte('}')
		return BulkReply(buf.String()), nil
	}
}

func (e *Engine) getOne(doc *document.Document, path string, f format.Formatter) ([]byte, error) {
	q, err := e.compile(path)
	if err != nil {
		return nil, err
	}
	results := doc.Get(q)
	if q.IsLegacy() {
		if len(results) == 0 {
			return nil, document.PathDoesNotExist{Path: path}
		}
		return f.Format(results[0]), nil
	}
	return format.SerializeMany(f, results), nil
}

// typeCmd implements JSON.TYPE key [path].
func (e *Engine) typeCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, WrongArity{cmd}
	}
	doc, q, err := e.lookup(args[0], pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return NilReply{}, nil
	}
	results := doc.Get(q)
	if q.IsLegacy() {
		if len(results) == 0 {
			return NilReply{}, nil
		}
		return BulkReply(results[0].TypeOf().Name()), nil
	}
	out := make(ArrayReply, len(results))
	for i, v := range results {
		out[i] = BulkReply(v.TypeOf().Name())
	}
	return out, nil
}

// strLenCmd implements JSON.STRLEN key [path].
func (e *Engine) strLenCmd(cmd string, args []string) (Reply, error) {
	return e.lenCmd(cmd, args, jsonvalue.String, "string")
}

// arrLenCmd implements JSON.ARRLEN key [path].
func (e *Engine) arrLenCmd(cmd string, args []string) (Reply, error) {
	return e.lenCmd(cmd, args, jsonvalue.Array, "array")
}

// objLenCmd implements JSON.OBJLEN key [path].
func (e *Engine) objLenCmd(cmd string, args []string) (Reply, error) {
	return e.lenCmd(cmd, args, jsonvalue.Object, "object")
}

func (e *Engine) lenCmd(cmd string, args []string, want jsonvalue.Type, wantName string) (Reply, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, WrongArity{cmd}
	}
	doc, q, err := e.lookup(args[0], pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return NilReply{}, nil
	}
	results := doc.Get(q)
	if q.IsLegacy() && len(results) == 0 {
		return nil, document.PathDoesNotExist{Path: pathOrDefault(args, 1)}
	}
	lengths := make([]int, len(results))
	for i, v := range results {
		if v.TypeOf() != want {
			return nil, document.WrongType{Expected: wantName, Found: v.TypeOf().Name()}
		}
		if want == jsonvalue.String {
			lengths[i] = len(v.Str())
		} else {
			lengths[i], _ = v.Len()
		}
	}
	if q.IsLegacy() {
		return IntReply(int64(lengths[0])), nil
	}
	out := make(ArrayReply, len(lengths))
	for i, l := range lengths {
		out[i] = IntReply(int64(l))
	}
	return out, nil
}

// objKeysCmd implements JSON.OBJKEYS key [path].
func (e *Engine) objKeysCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, WrongArity{cmd}
	}
	doc, q, err := e.lookup(args[0], pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return NilReply{}, nil
	}
	results := doc.Get(q)
	if q.IsLegacy() && len(results) == 0 {
		return nil, document.PathDoesNotExist{Path: pathOrDefault(args, 1)}
	}
	keyLists := make([]ArrayReply, len(results))
	for i, v := range results {
		if v.TypeOf() != jsonvalue.Object {
			return nil, document.WrongType{Expected: "object", Found: v.TypeOf().Name()}
		}
		keys := v.Keys()
		list := make(ArrayReply, len(keys))
		for j, k := range keys {
			list[j] = BulkReply(k)
		}
		keyLists[i] = list
	}
	if q.IsLegacy() {
		return keyLists[0], nil
	}
	out := make(ArrayReply, len(keyLists))
	for i, l := range keyLists {
		out[i] = l
	}
	return out, nil
}

// arrIndexCmd implements JSON.ARRINDEX key path json [start [stop]].
func (e *Engine) arrIndexCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 3 || len(args) > 5 {
		return nil, WrongArity{cmd}
	}
	needle, err := e.parseValue(args[2])
	if err != nil {
		return nil, err
	}
	start, stop := 0, 0
	if len(args) > 3 {
		if start, err = parseIntArg(args[3]); err != nil {
			return nil, err
		}
	}
	if len(args) > 4 {
		if stop, err = parseIntArg(args[4]); err != nil {
			return nil, err
		}
	}
	doc, q, err := e.lookup(args[0], args[1])
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NoSuchKey{args[0]}
	}
	found, err := doc.ArrIndex(q, needle, start, stop)
	if err != nil {
		return nil, err
	}
	return shapeInts(q.IsLegacy(), found), nil
}

// respCmd implements JSON.RESP key [path].
func (e *Engine) respCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, WrongArity{cmd}
	}
	doc, q, err := e.lookup(args[0], pathOrDefault(args, 1))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return NilReply{}, nil
	}
	results := doc.Get(q)
	if q.IsLegacy() {
		if len(results) == 0 {
			return nil, document.PathDoesNotExist{Path: pathOrDefault(args, 1)}
		}
		return respValue(results[0], 0), nil
	}
	out := make(ArrayReply, len(results))
	for i, v := range results {
		out[i] = respValue(v, 0)
	}
	return out, nil
}

// debugCmd implements JSON.DEBUG MEMORY key [path] and JSON.DEBUG HELP.
func (e *Engine) debugCmd(cmd string, args []string) (Reply, error) {
	if len(args) < 1 {
		return nil, WrongArity{cmd}
	}
	switch strings.ToUpper(args[0]) {
	case "HELP":
		return ArrayReply{
			BulkReply("MEMORY <key> [path] - reports memory usage"),
			BulkReply("HELP                - this message"),
		}, nil
	case "MEMORY":
		if len(args) < 2 || len(args) > 3 {
			return nil, WrongArity{cmd}
		}
		doc, q, err := e.lookup(args[1], pathOrDefault(args, 2))
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return IntReply(0), nil
		}
		results := doc.Get(q)
		sizes := make([]int, len(results))
		for i, v := range results {
			sizes[i] = jsonvalue.MemoryUsage(v)
		}
		if q.IsLegacy() {
			if len(sizes) == 0 {
				return IntReply(0), nil
			}
			return IntReply(int64(sizes[0])), nil
		}
		return shapeInts(false, sizes), nil
	default:
		return nil, WrongFormat{"unknown subcommand - try JSON.DEBUG HELP"}
	}
}
