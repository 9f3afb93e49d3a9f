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

package format

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyspace-io/jsondoc/jsonvalue"
)

func mustParse(t *testing.T, text string) *jsonvalue.Node {
	t.Helper()
	n, err := jsonvalue.Parse([]byte(text), jsonvalue.ParseOptions{})
	require.NoError(t, err)
	return n
}

func TestCompactOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"scalars", `[null,true,false,0,-7,2.5,"x"]`, `[null,true,false,0,-7,2.5,"x"]`},
		{"key order preserved", `{"z":1,"a":2}`, `{"z":1,"a":2}`},
		{"nested", `{"a":[{"b":[]},{}]}`, `{"a":[{"b":[]},{}]}`},
		{"escapes", "{\"t\":\"a\\tb\\nc\"}", `{"t":"a\tb\nc"}`},
		{"quote and backslash", `{"q":"\"\\"}`, `{"q":"\"\\"}`},
		{"control char", `{"c":"\u0001"}`, `{"c":"\u0001"}`},
		{"unicode passthrough", `{"u":"héllo"}`, `{"u":"héllo"}`},
		{"double keeps point", `{"f":1.0}`, `{"f":1.0}`},
		{"double exponent", `{"f":1e21}`, `{"f":1e+21}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(Serialize(mustParse(t, tc.in)))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatterKnobs(t *testing.T) {
	doc := mustParse(t, `{"a":[1,2],"b":{}}`)

	tests := []struct {
		name string
		f    Formatter
		want string
	}{
		{
			"compact",
			Formatter{},
			`{"a":[1,2],"b":{}}`,
		},
		{
			"space only",
			Formatter{Space: " "},
			`{"a": [1,2],"b": {}}`,
		},
		{
			"newline only",
			Formatter{Newline: "\n"},
			"{\n\"a\":[\n1,\n2\n],\n\"b\":{}\n}",
		},
		{
			"indent newline space",
			Formatter{Indent: "  ", Space: " ", Newline: "\n"},
			"{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(tc.f.Format(doc))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrettyRoundTrip(t *testing.T) {
	doc := mustParse(t, `{"a":[1,{"b":"c"},2.5],"d":null}`)
	back, err := jsonvalue.Parse(Pretty.Format(doc), jsonvalue.ParseOptions{})
	require.NoError(t, err)
	assert.True(t, jsonvalue.Equal(doc, back))
}

func TestSerializeMany(t *testing.T) {
	a := mustParse(t, `1`)
	b := mustParse(t, `{"x":2}`)
	got := string(SerializeMany(Compact, []jsonvalue.Value{a, b}))
	assert.Equal(t, `[1,{"x":2}]`, got)

	assert.Equal(t, `[]`, string(SerializeMany(Compact, nil)))
}

// randomValue builds an arbitrary document from a deterministic fuzzer.
func randomValue(f *fuzz.Fuzzer, depth int) *jsonvalue.Node {
	var pick uint8
	f.Fuzz(&pick)
	if depth <= 0 {
		pick %= 5 // scalars only at the bottom
	} else {
		pick %= 7
	}
	switch pick {
	case 0:
		return jsonvalue.NewNull()
	case 1:
		var b bool
		f.Fuzz(&b)
		return jsonvalue.NewBool(b)
	case 2:
		var i int64
		f.Fuzz(&i)
		return jsonvalue.NewInt(i)
	case 3:
		var fl float64
		f.Fuzz(&fl)
		if math.IsNaN(fl) || math.IsInf(fl, 0) {
			fl = 0.5
		}
		return jsonvalue.NewFloat(fl)
	case 4:
		var s string
		f.Fuzz(&s)
		return jsonvalue.NewString(s)
	case 5:
		var n uint8
		f.Fuzz(&n)
		arr := jsonvalue.NewArray()
		for i := 0; i < int(n%4); i++ {
			length, _ := arr.Len()
			arr.InsertAt(length, randomValue(f, depth-1))
		}
		return arr
	default:
		var n uint8
		f.Fuzz(&n)
		obj := jsonvalue.NewObject()
		for i := 0; i < int(n%4); i++ {
			var key string
			f.Fuzz(&key)
			obj.SetKey(key, randomValue(f, depth-1))
		}
		return obj
	}
}

// parse(serialise(v)) must reproduce v for arbitrary documents.
func TestRoundTripProperty(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		f := fuzz.NewWithSeed(seed)
		doc := randomValue(f, 4)

		text := Serialize(doc)
		back, err := jsonvalue.Parse(text, jsonvalue.ParseOptions{})
		require.NoError(t, err, "seed %d: %s", seed, text)
		require.True(t, jsonvalue.Equal(doc, back), "seed %d: %s", seed, text)

		// and the text itself is stable
		assert.Equal(t, string(text), string(Serialize(back)), "seed %d", seed)
	}
}

func TestSnapshotCurrentVersionRoundTrip(t *testing.T) {
	doc := mustParse(t, `{"a":[1,2.5,"x"],"b":{"c":null,"d":true}}`)

	var buf bytes.Buffer
	s := &Stream{R: &buf, W: &buf}
	require.NoError(t, SaveValue(s, doc))

	back, err := LoadValue(s, CurrentSnapshotVersion)
	require.NoError(t, err)
	assert.True(t, jsonvalue.Equal(doc, back))
}

func TestSnapshotV2DiscardsTrailer(t *testing.T) {
	var buf bytes.Buffer
	s := &Stream{R: &buf, W: &buf}

	require.NoError(t, s.WriteStringBuffer([]byte(`{"a":1}`)))
	require.NoError(t, s.WriteUnsigned(2)) // legacy index sidecar
	for i := 0; i < 2; i++ {
		require.NoError(t, s.WriteStringBuffer([]byte("idx")))
		require.NoError(t, s.WriteStringBuffer([]byte("path")))
	}

	back, err := LoadValue(s, SnapshotV2)
	require.NoError(t, err)
	assert.True(t, jsonvalue.Equal(mustParse(t, `{"a":1}`), back))

	// the sidecar was fully consumed
	_, err = s.ReadUnsigned()
	assert.Error(t, err)
}

func writeV1(t *testing.T, s *Stream, writes ...func() error) {
	t.Helper()
	for _, w := range writes {
		require.NoError(t, w())
	}
}

func TestSnapshotV1Load(t *testing.T) {
	var buf bytes.Buffer
	s := &Stream{R: &buf, W: &buf}

	// {"k":[null,1,2.5,"s",true]}
	writeV1(t, s,
		func() error { return s.WriteUnsigned(v1Dict) },
		func() error { return s.WriteUnsigned(1) },
		func() error { return s.WriteUnsigned(v1KeyVal) },
		func() error { return s.WriteStringBuffer([]byte("k")) },
		func() error { return s.WriteUnsigned(v1Array) },
		func() error { return s.WriteUnsigned(5) },
		func() error { return s.WriteUnsigned(v1Null) },
		func() error { return s.WriteUnsigned(v1Integer) },
		func() error { return s.WriteSigned(1) },
		func() error { return s.WriteUnsigned(v1Number) },
		func() error { return s.WriteDouble(2.5) },
		func() error { return s.WriteUnsigned(v1String) },
		func() error { return s.WriteStringBuffer([]byte("s")) },
		func() error { return s.WriteUnsigned(v1Boolean) },
		func() error { return s.WriteStringBuffer([]byte("1")) },
	)

	back, err := LoadValue(s, SnapshotV1)
	require.NoError(t, err)
	assert.True(t, jsonvalue.Equal(mustParse(t, `{"k":[null,1,2.5,"s",true]}`), back))
}

func TestSnapshotV1RejectsBadTags(t *testing.T) {
	var buf bytes.Buffer
	s := &Stream{R: &buf, W: &buf}
	require.NoError(t, s.WriteUnsigned(0x33))
	_, err := LoadValue(s, SnapshotV1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load")

	// a stray keyval at top level is also rejected
	buf.Reset()
	require.NoError(t, s.WriteUnsigned(v1KeyVal))
	_, err = LoadValue(s, SnapshotV1)
	require.Error(t, err)
}

func TestSnapshotUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	s := &Stream{R: &buf, W: &buf}
	require.NoError(t, s.WriteStringBuffer([]byte(`1`)))
	_, err := LoadValue(s, 9)
	require.Error(t, err)
}
