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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAccepts(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"root", `$`},
		{"dot child", `$.store`},
		{"dollar key after dot", `$.$price`},
		{"ident with colon and dash", `$.ns:item-name`},
		{"quoted child", `$.'weird key'`},
		{"double quoted child", `$."weird key"`},
		{"bracket name", `$["store"]`},
		{"bracket single quotes", `$['store']`},
		{"bracket bare name", `$[store]`},
		{"index", `$[0]`},
		{"negative index", `$[-2]`},
		{"wildcard dot", `$.*`},
		{"wildcard bracket", `$[*]`},
		{"descent ident", `$..price`},
		{"descent wildcard", `$..*`},
		{"descent bracket", `$..[0]`},
		{"slice", `$[1:3]`},
		{"slice with step", `$[0:10:2]`},
		{"slice open ends", `$[:]`},
		{"slice negative step", `$[::-1]`},
		{"union of indices", `$[0,1,2]`},
		{"union mixed", `$[0,'a',1:2]`},
		{"existence filter", `$[?(@.isbn)]`},
		{"comparison filter", `$[?(@.price<10)]`},
		{"filter on root subpath", `$[?($.limit>=@.price)]`},
		{"filter with logical ops", `$[?(@.a==1&&@.b==2||@.c)]`},
		{"negated filter", `$[?(!@.hidden)]`},
		{"regex filter", `$[?(@.name=~"^a.*b$")]`},
		{"filter literals", `$[?(@.x==null)]`},
		{"whitespace tolerated", `$[ 0 , 1 ]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Compile(tc.path)
			require.NoError(t, err)
			assert.False(t, q.IsLegacy())
		})
	}
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"dot before bracket", `$.[0]`},
		{"empty brackets", `$[]`},
		{"unterminated bracket", `$[0`},
		{"unterminated quote", `$["a`},
		{"slice step zero", `$[0:3:0]`},
		{"single eq", `$[?(@.a=1)]`},
		{"unquoted literal", `$[?(@.a==abc)]`},
		{"bad regex", `$[?(@.a=~"[")]`},
		{"regex right operand not literal", `$[?(@.a=~@.b)]`},
		{"lone at", `@.a`},
		{"trailing garbage", `$.a^`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.path)
			require.Error(t, err)
			assert.IsType(t, InvalidPath{}, err)
		})
	}
}

func TestCompileErrorPosition(t *testing.T) {
	_, err := Compile(`$.store.`)
	require.Error(t, err)
	ip, ok := err.(InvalidPath)
	require.True(t, ok)
	assert.Equal(t, len(`$.store.`), ip.Pos)
	assert.Contains(t, ip.Error(), "^")
}

func TestLegacyRewrite(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		input   string
		legacy  bool
	}{
		{"empty is root", ``, `$`, true},
		{"dot is root", `.`, `$`, true},
		{"dotted", `.a.b`, `$.a.b`, true},
		{"bare", `a.b`, `$.a.b`, true},
		{"dollar key", `$foo`, `$.$foo`, true},
		{"modern stays", `$.a`, `$.a`, false},
		{"modern bracket stays", `$[0]`, `$[0]`, false},
		{"modern root stays", `$`, `$`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Compile(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.legacy, q.IsLegacy())
			assert.Equal(t, tc.input, q.input)
			assert.Equal(t, tc.path, q.Source())
		})
	}
}

func TestLegacyMustBeStatic(t *testing.T) {
	for _, path := range []string{`.a[*]`, `.a..b`, `.a[0,1]`, `.a[1:2]`, `a[?(@.x)]`} {
		t.Run(path, func(t *testing.T) {
			_, err := Compile(path)
			require.Error(t, err)
			assert.IsType(t, InvalidPath{}, err)
		})
	}
}

func TestStaticClassification(t *testing.T) {
	tests := []struct {
		path   string
		static bool
	}{
		{`$`, true},
		{`$.a.b`, true},
		{`$.a[0].b`, true},
		{`$["a"][3]`, true},
		{`$.a[*]`, false},
		{`$..b`, false},
		{`$.a[0,1]`, false},
		{`$.a[0:2]`, false},
		{`$.a[?(@.x)]`, false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			q, err := Compile(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.static, q.IsStatic())
		})
	}
}

func TestParentKey(t *testing.T) {
	q, err := Compile(`.x.y`)
	require.NoError(t, err)
	parent, key, ok := q.ParentKey()
	require.True(t, ok)
	assert.Equal(t, "y", key)
	assert.Equal(t, "$[\"x\"]", parent.canonical())

	root, err := Compile(`$`)
	require.NoError(t, err)
	_, _, ok = root.ParentKey()
	assert.False(t, ok)

	idx, err := Compile(`$.a[0]`)
	require.NoError(t, err)
	_, _, ok = idx.ParentKey()
	assert.False(t, ok)
}

func TestCacheReturnsSameQuery(t *testing.T) {
	c := NewCache(4)
	q1, err := c.Compile(`$.a.b`)
	require.NoError(t, err)
	q2, err := c.Compile(`$.a.b`)
	require.NoError(t, err)
	assert.Same(t, q1, q2)

	_, err = c.Compile(`$[`)
	require.Error(t, err)
}
