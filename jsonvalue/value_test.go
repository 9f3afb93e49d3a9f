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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		typ  Type
	}{
		{"null", `null`, Null},
		{"bool", `true`, Bool},
		{"integer", `42`, Integer},
		{"negative integer", `-7`, Integer},
		{"double with fraction", `4.5`, Double},
		{"double with exponent", `1e3`, Double},
		{"integer too big for int64", `92233720368547758080`, Double},
		{"string", `"hi"`, String},
		{"array", `[1,2]`, Array},
		{"object", `{"a":1}`, Object},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse([]byte(tc.in), ParseOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.typ, n.TypeOf())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ``},
		{"trailing characters", `{} {}`},
		{"unterminated object", `{"a":`},
		{"bare word", `hello`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in), ParseOptions{})
			require.Error(t, err)
			assert.IsType(t, InvalidJson{}, err)
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	_, err := Parse([]byte(`[[[[[1]]]]]`), ParseOptions{MaxDepth: 3})
	require.Error(t, err)

	_, err = Parse([]byte(`[[[1]]]`), ParseOptions{MaxDepth: 3})
	require.NoError(t, err)
}

func TestParseKeepsKeyOrder(t *testing.T) {
	n, err := Parse([]byte(`{"z":1,"a":2,"m":3}`), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, n.Keys())

	// updating an existing key keeps its position
	n.SetKey("a", NewInt(9))
	assert.Equal(t, []string{"z", "a", "m"}, n.Keys())

	// a new key is appended
	n.SetKey("b", NewInt(4))
	assert.Equal(t, []string{"z", "a", "m", "b"}, n.Keys())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"same scalars", `1`, `1`, true},
		{"integer vs double same value", `2`, `2.0`, true},
		{"different numbers", `1`, `2`, false},
		{"object key order ignored", `{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{"array order matters", `[1,2]`, `[2,1]`, false},
		{"nested", `{"a":[1,{"b":null}]}`, `{"a":[1,{"b":null}]}`, true},
		{"type mismatch", `"1"`, `1`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Parse([]byte(tc.a), ParseOptions{})
			require.NoError(t, err)
			b, err := Parse([]byte(tc.b), ParseOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.equal, Equal(a, b))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig, err := Parse([]byte(`{"a":[1,2],"b":{"c":3}}`), ParseOptions{})
	require.NoError(t, err)

	clone := orig.Clone()
	inner, ok := clone.ChildKey("b")
	require.True(t, ok)
	inner.SetKey("c", NewInt(99))

	got, ok := orig.Key("b")
	require.True(t, ok)
	c, ok := got.Key("c")
	require.True(t, ok)
	assert.Equal(t, int64(3), c.Int())
}

func TestCompactRoundTrip(t *testing.T) {
	orig, err := Parse([]byte(`{"name":"x","tags":["a","a","b"],"n":3,"f":2.5,"ok":true,"nil":null}`), ParseOptions{})
	require.NoError(t, err)

	compact := FromTree(orig)
	assert.Equal(t, orig.Keys(), compact.Keys())
	assert.True(t, Equal(orig, compact))

	back := compact.ToTree()
	assert.True(t, Equal(orig, back))
}

func TestCompactMutation(t *testing.T) {
	orig, err := Parse([]byte(`{"a":[1,2,3]}`), ParseOptions{})
	require.NoError(t, err)
	compact := FromTree(orig)

	arr, ok := compact.ChildKey("a")
	require.True(t, ok)
	length, _ := arr.Len()
	arr.InsertAt(length, NewInt(4)) // tree-backed value converts on the way in
	removed, ok := arr.RemoveAt(0)
	require.True(t, ok)
	assert.Equal(t, int64(1), removed.Int())

	want, err := Parse([]byte(`{"a":[2,3,4]}`), ParseOptions{})
	require.NoError(t, err)
	assert.True(t, Equal(want, compact))
}

func TestInternSharesShortStrings(t *testing.T) {
	ResetStringCache()
	a := Intern("shared-key")
	b := Intern("shared-key")
	assert.Same(t, a, b)

	long := string(make([]byte, maxCachedStringLen+1))
	c := Intern(long)
	d := Intern(long)
	assert.NotSame(t, c, d)
}

type countingAllocator struct {
	relocated int
}

func (a *countingAllocator) RelocateString(s *string) *string {
	a.relocated++
	moved := *s
	return &moved
}

func (a *countingAllocator) RelocateBytes(b []byte) []byte { return nil }

func TestDefragRebindsStrings(t *testing.T) {
	orig, err := Parse([]byte(`{"k1":"v1","k2":["v2","v3"]}`), ParseOptions{})
	require.NoError(t, err)
	compact := FromTree(orig)

	ResetStringCache()
	alloc := &countingAllocator{}
	moved := compact.Defrag(alloc)

	// two keys plus three string values
	assert.Equal(t, 5, alloc.relocated)
	assert.Equal(t, 5, moved)
	assert.True(t, Equal(orig, compact))
	// relocated strings repopulated the fresh cache
	assert.Greater(t, StringCacheLen(), 0)
}

func TestMemoryUsageGrowsWithContent(t *testing.T) {
	small, err := Parse([]byte(`{"a":1}`), ParseOptions{})
	require.NoError(t, err)
	big, err := Parse([]byte(`{"a":1,"b":"a longer string value","c":[1,2,3,4,5]}`), ParseOptions{})
	require.NoError(t, err)

	assert.Greater(t, MemoryUsage(big), MemoryUsage(small))
	assert.Greater(t, MemoryUsage(small), 0)
}
