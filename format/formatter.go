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

// Package format serialises document values: JSON text with the
// INDENT/SPACE/NEWLINE knobs, and the snapshot byte-stream codec in its
// current and legacy versions.
package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// Formatter renders a value as JSON text. The three knobs default to
// empty, which produces the compact form. Indent is repeated once per
// nesting level, Space follows each ':', Newline precedes each member
// and each closing bracket of a non-empty container.
type Formatter struct {
	Indent  string
	Space   string
	Newline string
}

// Compact is the all-defaults formatter.
var Compact = Formatter{}

// Pretty is the conventional human-readable formatter.
var Pretty = Formatter{Indent: "  ", Space: " ", Newline: "\n"}

// Append serialises v onto dst and returns the extended slice.
func (f Formatter) Append(dst []byte, v jsonvalue.Value) []byte {
	return f.appendValue(dst, v, 0)
}

// Format serialises v into a fresh buffer.
func (f Formatter) Format(v jsonvalue.Value) []byte {
	return f.Append(nil, v)
}

// Write serialises v onto w.
func (f Formatter) Write(w io.Writer, v jsonvalue.Value) error {
	_, err := w.Write(f.Format(v))
	return err
}

func (f Formatter) appendValue(dst []byte, v jsonvalue.Value, depth int) []byte {
	switch v.TypeOf() {
	case jsonvalue.Null:
		return append(dst, "null"...)
	case jsonvalue.Bool:
		return strconv.AppendBool(dst, v.BoolVal())
	case jsonvalue.Integer:
		return strconv.AppendInt(dst, v.Int(), 10)
	case jsonvalue.Double:
		return appendFloat(dst, v.Float())
	case jsonvalue.String:
		return AppendQuoted(dst, v.Str())
	case jsonvalue.Array:
		elems := v.Values()
		if len(elems) == 0 {
			return append(dst, "[]"...)
		}
		dst = append(dst, '[')
		for i, e := range elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = f.appendBreak(dst, depth+1)
			dst = f.appendValue(dst, e, depth+1)
		}
		dst = f.appendBreak(dst, depth)
		return append(dst, ']')
	case jsonvalue.Object:
		items := v.Items()
		if len(items) == 0 {
			return append(dst, "{}"...)
		}
		dst = append(dst, '{')
		for i, it := range items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = f.appendBreak(dst, depth+1)
			dst = AppendQuoted(dst, it.Key)
			dst = append(dst, ':')
			dst = append(dst, f.Space...)
			dst = f.appendValue(dst, it.Value, depth+1)
		}
		dst = f.appendBreak(dst, depth)
		return append(dst, '}')
	default:
		panic(fmt.Sprintf("internal error - unknown value type: %d", int(v.TypeOf())))
	}
}

func (f Formatter) appendBreak(dst []byte, depth int) []byte {
	dst = append(dst, f.Newline...)
	if f.Indent != "" {
		for i := 0; i < depth; i++ {
			dst = append(dst, f.Indent...)
		}
	}
	return dst
}

// appendFloat writes the shortest round-trip representation, keeping a
// decimal point (or exponent) so the value re-parses as a double.
func appendFloat(dst []byte, fv float64) []byte {
	s := strconv.FormatFloat(fv, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return append(dst, s...)
}

const hexDigits = "0123456789abcdef"

// AppendQuoted escapes s per the JSON grammar: the two mandatory
// escapes, the short control escapes, and \u00xx for the rest of the
// control range. Valid UTF-8 passes through unescaped.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		b := s[i]
		if b >= 0x20 && b != '"' && b != '\\' {
			if b < utf8.RuneSelf {
				dst = append(dst, b)
				i++
				continue
			}
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, `�`...)
				i++
				continue
			}
			dst = append(dst, s[i:i+size]...)
			i += size
			continue
		}
		switch b {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xf])
		}
		i++
	}
	return append(dst, '"')
}

// Serialize is shorthand for the compact form.
func Serialize(v jsonvalue.Value) []byte {
	return Compact.Format(v)
}

// SerializeMany renders a list of values as one JSON array, the reply
// shape of modern-path reads. The formatter applies to the outer array
// as well as the members.
func SerializeMany(f Formatter, vs []jsonvalue.Value) []byte {
	return f.Format(valueList(vs))
}

// valueList adapts a result list to the read capability set so the
// formatter can treat it as an array without copying into a tree.
type valueList []jsonvalue.Value

func (l valueList) TypeOf() jsonvalue.Type          { return jsonvalue.Array }
func (l valueList) Len() (int, bool)                { return len(l), true }
func (l valueList) Key(string) (jsonvalue.Value, bool) { return nil, false }
func (l valueList) Index(i int) (jsonvalue.Value, bool) {
	if i < 0 || i >= len(l) {
		return nil, false
	}
	return l[i], true
}
func (l valueList) Keys() []string            { return nil }
func (l valueList) Values() []jsonvalue.Value { return l }
func (l valueList) Items() []jsonvalue.Item   { return nil }
func (l valueList) Str() string               { panic("internal error - not a string") }
func (l valueList) BoolVal() bool             { panic("internal error - not a bool") }
func (l valueList) Int() int64                { panic("internal error - not an integer") }
func (l valueList) Float() float64            { panic("internal error - not a double") }
