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

package jsonvalue

import (
	"fmt"
	"sync"
)

// maxCachedStringLen bounds the shared-string cache to short strings,
// where sharing pays for the lookup.
const maxCachedStringLen = 64

var stringCache = struct {
	sync.Mutex
	m map[string]*string
}{m: map[string]*string{}}

// Intern returns a shared pointer for s. Strings longer than the cache
// bound get a private allocation.
func Intern(s string) *string {
	if len(s) > maxCachedStringLen {
		p := s
		return &p
	}
	stringCache.Lock()
	defer stringCache.Unlock()
	if p, ok := stringCache.m[s]; ok {
		return p
	}
	p := s
	stringCache.m[s] = &p
	return &p
}

// ResetStringCache drops every cache entry. Called at the start of a
// defrag cycle so relocated strings repopulate the cache fresh.
func ResetStringCache() {
	stringCache.Lock()
	defer stringCache.Unlock()
	stringCache.m = map[string]*string{}
}

// StringCacheLen reports the current cache population.
func StringCacheLen() int {
	stringCache.Lock()
	defer stringCache.Unlock()
	return len(stringCache.m)
}

// CompactNode is the interned backing. Scalars are stored inline;
// strings and object keys are pointers into the shared-string cache, so
// repeated keys across many documents share one allocation. It carries
// the same capability set as Node and behaves identically under the
// evaluator and the mutation engine.
type CompactNode struct {
	typ Type

	b bool
	i int64
	f float64
	s *string

	elems []*CompactNode

	keys   []*string
	fields map[string]*CompactNode
}

// FromTree converts a tree node into the compact backing, interning
// every string and key.
func FromTree(n *Node) *CompactNode {
	c := &CompactNode{typ: n.typ, b: n.b, i: n.i, f: n.f}
	switch n.typ {
	case String:
		c.s = Intern(n.s)
	case Array:
		c.elems = make([]*CompactNode, len(n.elems))
		for i, e := range n.elems {
			c.elems[i] = FromTree(e)
		}
	case Object:
		c.keys = make([]*string, len(n.keys))
		c.fields = make(map[string]*CompactNode, len(n.keys))
		for i, k := range n.keys {
			c.keys[i] = Intern(k)
			c.fields[k] = FromTree(n.fields[k])
		}
	}
	return c
}

// ToTree converts back into the plain tagged tree.
func (c *CompactNode) ToTree() *Node {
	n := &Node{typ: c.typ, b: c.b, i: c.i, f: c.f}
	switch c.typ {
	case String:
		n.s = *c.s
	case Array:
		n.elems = make([]*Node, len(c.elems))
		for i, e := range c.elems {
			n.elems[i] = e.ToTree()
		}
	case Object:
		n.keys = make([]string, len(c.keys))
		n.fields = make(map[string]*Node, len(c.keys))
		for i, k := range c.keys {
			n.keys[i] = *k
			n.fields[*k] = c.fields[*k].ToTree()
		}
	}
	return n
}

func (c *CompactNode) TypeOf() Type { return c.typ }

func (c *CompactNode) Len() (int, bool) {
	switch c.typ {
	case Array:
		return len(c.elems), true
	case Object:
		return len(c.keys), true
	default:
		return 0, false
	}
}

func (c *CompactNode) Key(name string) (Value, bool) {
	m, ok := c.ChildKey(name)
	if !ok {
		return nil, false
	}
	return m.(*CompactNode), true
}

func (c *CompactNode) Index(i int) (Value, bool) {
	m, ok := c.ChildIndex(i)
	if !ok {
		return nil, false
	}
	return m.(*CompactNode), true
}

func (c *CompactNode) Keys() []string {
	if c.typ != Object {
		return nil
	}
	ks := make([]string, len(c.keys))
	for i, k := range c.keys {
		ks[i] = *k
	}
	return ks
}

func (c *CompactNode) Values() []Value {
	switch c.typ {
	case Array:
		vs := make([]Value, len(c.elems))
		for i, e := range c.elems {
			vs[i] = e
		}
		return vs
	case Object:
		vs := make([]Value, len(c.keys))
		for i, k := range c.keys {
			vs[i] = c.fields[*k]
		}
		return vs
	default:
		return nil
	}
}

func (c *CompactNode) Items() []Item {
	if c.typ != Object {
		return nil
	}
	items := make([]Item, len(c.keys))
	for i, k := range c.keys {
		items[i] = Item{*k, c.fields[*k]}
	}
	return items
}

func (c *CompactNode) Str() string {
	c.mustBe(String)
	return *c.s
}

func (c *CompactNode) BoolVal() bool {
	c.mustBe(Bool)
	return c.b
}

func (c *CompactNode) Int() int64 {
	c.mustBe(Integer)
	return c.i
}

func (c *CompactNode) Float() float64 {
	c.mustBe(Double)
	return c.f
}

func (c *CompactNode) mustBe(t Type) {
	if c.typ != t {
		panic(fmt.Sprintf("internal error - %s extractor called on %s node", t, c.typ))
	}
}

//--- write capability set ---

func (c *CompactNode) ChildKey(name string) (Mutable, bool) {
	if c.typ != Object {
		return nil, false
	}
	m, ok := c.fields[name]
	if !ok {
		return nil, false
	}
	return m, true
}

func (c *CompactNode) ChildIndex(i int) (Mutable, bool) {
	if c.typ != Array || i < 0 || i >= len(c.elems) {
		return nil, false
	}
	return c.elems[i], true
}

func (c *CompactNode) SetKey(name string, v Mutable) {
	c.mustBe(Object)
	if _, exists := c.fields[name]; !exists {
		c.keys = append(c.keys, Intern(name))
	}
	c.fields[name] = toCompact(v)
}

func (c *CompactNode) RemoveKey(name string) (Mutable, bool) {
	c.mustBe(Object)
	old, exists := c.fields[name]
	if !exists {
		return nil, false
	}
	delete(c.fields, name)
	for i, k := range c.keys {
		if *k == name {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return old, true
}

func (c *CompactNode) SetIndex(i int, v Mutable) {
	c.mustBe(Array)
	c.elems[i] = toCompact(v)
}

func (c *CompactNode) InsertAt(i int, vs ...Mutable) {
	c.mustBe(Array)
	nodes := make([]*CompactNode, len(vs))
	for j, v := range vs {
		nodes[j] = toCompact(v)
	}
	c.elems = append(c.elems[:i], append(nodes, c.elems[i:]...)...)
}

func (c *CompactNode) RemoveAt(i int) (Mutable, bool) {
	c.mustBe(Array)
	if i < 0 || i >= len(c.elems) {
		return nil, false
	}
	old := c.elems[i]
	c.elems = append(c.elems[:i], c.elems[i+1:]...)
	return old, true
}

func (c *CompactNode) KeepRange(start, stop int) {
	c.mustBe(Array)
	if start > stop || start >= len(c.elems) {
		c.elems = nil
		return
	}
	if stop >= len(c.elems) {
		stop = len(c.elems) - 1
	}
	c.elems = append([]*CompactNode(nil), c.elems[start:stop+1]...)
}

func (c *CompactNode) ReplaceWith(v Mutable) {
	*c = *toCompact(v)
}

func (c *CompactNode) Clone() Mutable {
	n := &CompactNode{typ: c.typ, b: c.b, i: c.i, f: c.f, s: c.s}
	switch c.typ {
	case Array:
		n.elems = make([]*CompactNode, len(c.elems))
		for i, e := range c.elems {
			n.elems[i] = e.Clone().(*CompactNode)
		}
	case Object:
		n.keys = append([]*string(nil), c.keys...)
		n.fields = make(map[string]*CompactNode, len(c.fields))
		for k, v := range c.fields {
			n.fields[k] = v.Clone().(*CompactNode)
		}
	}
	return n
}

// toCompact accepts either backing, interning tree nodes on the way in.
func toCompact(v Mutable) *CompactNode {
	switch t := v.(type) {
	case *CompactNode:
		return t
	case *Node:
		return FromTree(t)
	default:
		panic(fmt.Sprintf("internal error - unknown value backing: %T", v))
	}
}
