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

import "fmt"

// Node is the plain tagged-tree backing. One struct carries the
// discriminator plus the payload fields of every kind; only the fields
// of the active kind are meaningful. Objects keep insertion order in a
// parallel key slice next to the lookup map.
type Node struct {
	typ Type

	b bool
	i int64
	f float64
	s string

	elems []*Node

	keys   []string
	fields map[string]*Node
}

func NewNull() *Node           { return &Node{typ: Null} }
func NewBool(b bool) *Node     { return &Node{typ: Bool, b: b} }
func NewInt(i int64) *Node     { return &Node{typ: Integer, i: i} }
func NewFloat(f float64) *Node { return &Node{typ: Double, f: f} }
func NewString(s string) *Node { return &Node{typ: String, s: s} }

func NewArray(elems ...*Node) *Node {
	return &Node{typ: Array, elems: elems}
}

func NewObject() *Node {
	return &Node{typ: Object, fields: map[string]*Node{}}
}

func (n *Node) TypeOf() Type { return n.typ }

func (n *Node) Len() (int, bool) {
	switch n.typ {
	case Array:
		return len(n.elems), true
	case Object:
		return len(n.keys), true
	default:
		return 0, false
	}
}

func (n *Node) Key(name string) (Value, bool) {
	c, ok := n.ChildKey(name)
	if !ok {
		return nil, false
	}
	return c.(*Node), true
}

func (n *Node) Index(i int) (Value, bool) {
	c, ok := n.ChildIndex(i)
	if !ok {
		return nil, false
	}
	return c.(*Node), true
}

func (n *Node) Keys() []string {
	if n.typ != Object {
		return nil
	}
	return n.keys
}

func (n *Node) Values() []Value {
	switch n.typ {
	case Array:
		vs := make([]Value, len(n.elems))
		for i, e := range n.elems {
			vs[i] = e
		}
		return vs
	case Object:
		vs := make([]Value, len(n.keys))
		for i, k := range n.keys {
			vs[i] = n.fields[k]
		}
		return vs
	default:
		return nil
	}
}

func (n *Node) Items() []Item {
	if n.typ != Object {
		return nil
	}
	items := make([]Item, len(n.keys))
	for i, k := range n.keys {
		items[i] = Item{k, n.fields[k]}
	}
	return items
}

func (n *Node) Str() string {
	n.mustBe(String)
	return n.s
}

func (n *Node) BoolVal() bool {
	n.mustBe(Bool)
	return n.b
}

func (n *Node) Int() int64 {
	n.mustBe(Integer)
	return n.i
}

func (n *Node) Float() float64 {
	n.mustBe(Double)
	return n.f
}

func (n *Node) mustBe(t Type) {
	if n.typ != t {
		panic(fmt.Sprintf("internal error - %s extractor called on %s node", t, n.typ))
	}
}

//--- write capability set ---

func (n *Node) ChildKey(name string) (Mutable, bool) {
	if n.typ != Object {
		return nil, false
	}
	c, ok := n.fields[name]
	if !ok {
		return nil, false
	}
	return c, true
}

func (n *Node) ChildIndex(i int) (Mutable, bool) {
	if n.typ != Array || i < 0 || i >= len(n.elems) {
		return nil, false
	}
	return n.elems[i], true
}

func (n *Node) SetKey(name string, v Mutable) {
	n.mustBe(Object)
	if _, exists := n.fields[name]; !exists {
		n.keys = append(n.keys, name)
	}
	n.fields[name] = toNode(v)
}

func (n *Node) RemoveKey(name string) (Mutable, bool) {
	n.mustBe(Object)
	old, exists := n.fields[name]
	if !exists {
		return nil, false
	}
	delete(n.fields, name)
	for i, k := range n.keys {
		if k == name {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return old, true
}

func (n *Node) SetIndex(i int, v Mutable) {
	n.mustBe(Array)
	n.elems[i] = toNode(v)
}

func (n *Node) InsertAt(i int, vs ...Mutable) {
	n.mustBe(Array)
	nodes := make([]*Node, len(vs))
	for j, v := range vs {
		nodes[j] = toNode(v)
	}
	n.elems = append(n.elems[:i], append(nodes, n.elems[i:]...)...)
}

func (n *Node) RemoveAt(i int) (Mutable, bool) {
	n.mustBe(Array)
	if i < 0 || i >= len(n.elems) {
		return nil, false
	}
	old := n.elems[i]
	n.elems = append(n.elems[:i], n.elems[i+1:]...)
	return old, true
}

func (n *Node) KeepRange(start, stop int) {
	n.mustBe(Array)
	if start > stop || start >= len(n.elems) {
		n.elems = nil
		return
	}
	if stop >= len(n.elems) {
		stop = len(n.elems) - 1
	}
	n.elems = append([]*Node(nil), n.elems[start:stop+1]...)
}

func (n *Node) ReplaceWith(v Mutable) {
	*n = *toNode(v)
}

func (n *Node) Clone() Mutable {
	c := &Node{typ: n.typ, b: n.b, i: n.i, f: n.f, s: n.s}
	switch n.typ {
	case Array:
		c.elems = make([]*Node, len(n.elems))
		for i, e := range n.elems {
			c.elems[i] = e.Clone().(*Node)
		}
	case Object:
		c.keys = append([]string(nil), n.keys...)
		c.fields = make(map[string]*Node, len(n.fields))
		for k, v := range n.fields {
			c.fields[k] = v.Clone().(*Node)
		}
	}
	return c
}

// toNode accepts either backing, converting compact nodes so a write
// never mixes representations inside one tree.
func toNode(v Mutable) *Node {
	switch t := v.(type) {
	case *Node:
		return t
	case *CompactNode:
		return t.ToTree()
	default:
		panic(fmt.Sprintf("internal error - unknown value backing: %T", v))
	}
}
