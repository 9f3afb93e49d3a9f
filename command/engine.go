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

// Package command implements the JSON.* command surface on top of the
// path compiler, the evaluator, and the mutation engine. The host hands
// in a Keyspace and receives typed replies; errors abort the command
// with the document unchanged.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/keyspace-io/jsondoc/config"
	"github.com/keyspace-io/jsondoc/jsonpath"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// jsonpathQuery keeps the handler signatures readable.
type jsonpathQuery = jsonpath.Query

// Engine executes commands against one keyspace.
type Engine struct {
	ks          Keyspace
	notifier    Notifier
	cfg         config.Config
	cache       *jsonpath.Cache
	replyFormat ReplyFormat
}

// NewEngine wires a command engine. A nil notifier suppresses keyspace
// events.
func NewEngine(ks Keyspace, notifier Notifier, cfg config.Config) *Engine {
	e := &Engine{ks: ks, notifier: notifier, cfg: cfg, replyFormat: ReplyFormatString}
	if cfg.QueryCacheSize > 0 {
		e.cache = jsonpath.NewCache(cfg.QueryCacheSize)
	}
	return e
}

// SetReplyFormat switches the shaping of multi-path replies.
func (e *Engine) SetReplyFormat(f ReplyFormat) { e.replyFormat = f }

type handler func(e *Engine, cmd string, args []string) (Reply, error)

var handlers = map[string]handler{
	"JSON.SET":       (*Engine).setCmd,
	"JSON.GET":       (*Engine).getCmd,
	"JSON.DEL":       (*Engine).delCmd,
	"JSON.FORGET":    (*Engine).delCmd,
	"JSON.MERGE":     (*Engine).mergeCmd,
	"JSON.TYPE":      (*Engine).typeCmd,
	"JSON.STRLEN":    (*Engine).strLenCmd,
	"JSON.ARRLEN":    (*Engine).arrLenCmd,
	"JSON.OBJLEN":    (*Engine).objLenCmd,
	"JSON.OBJKEYS":   (*Engine).objKeysCmd,
	"JSON.NUMINCRBY": (*Engine).numIncrCmd,
	"JSON.NUMMULTBY": (*Engine).numMultCmd,
	"JSON.NUMPOWBY":  (*Engine).numPowCmd,
	"JSON.TOGGLE":    (*Engine).toggleCmd,
	"JSON.STRAPPEND": (*Engine).strAppendCmd,
	"JSON.ARRAPPEND": (*Engine).arrAppendCmd,
	"JSON.ARRINSERT": (*Engine).arrInsertCmd,
	"JSON.ARRPOP":    (*Engine).arrPopCmd,
	"JSON.ARRTRIM":   (*Engine).arrTrimCmd,
	"JSON.ARRINDEX":  (*Engine).arrIndexCmd,
	"JSON.CLEAR":     (*Engine).clearCmd,
	"JSON.RESP":      (*Engine).respCmd,
	"JSON.DEBUG":     (*Engine).debugCmd,
}

// Execute dispatches one command invocation. args[0] is the command
// name; the rest are its arguments verbatim.
func (e *Engine) Execute(args []string) (Reply, error) {
	if len(args) == 0 {
		return nil, WrongArity{"?"}
	}
	name := strings.ToUpper(args[0])
	h, ok := handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown command '%s'", args[0])
	}
	klog.V(4).InfoS("executing command", "cmd", name, "args", args[1:])
	reply, err := h(e, name, args[1:])
	if err != nil {
		klog.V(4).InfoS("command failed", "cmd", name, "err", err)
	}
	return reply, err
}

func (e *Engine) compile(path string) (*jsonpath.Query, error) {
	if e.cache != nil {
		return e.cache.Compile(path)
	}
	return jsonpath.Compile(path)
}

func (e *Engine) notify(event, key string) {
	if e.notifier != nil {
		e.notifier.Notify(event, key)
	}
}

func (e *Engine) parseValue(text string) (*jsonvalue.Node, error) {
	return jsonvalue.Parse([]byte(text), jsonvalue.ParseOptions{MaxDepth: e.cfg.MaxParseDepth})
}

// newRoot applies the configured storage backing to a freshly parsed
// document root.
func (e *Engine) newRoot(n *jsonvalue.Node) jsonvalue.Mutable {
	if e.cfg.CompactStorage {
		return jsonvalue.FromTree(n)
	}
	return n
}

func parseIntArg(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, WrongFormat{fmt.Sprintf("value is not an integer or out of range: %q", s)}
	}
	return i, nil
}

// pathOrDefault returns the path argument at index i, or '$'.
func pathOrDefault(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return "$"
}
