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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// InvalidJson reports a malformed document handed to Parse.
type InvalidJson struct {
	Msg string
}

func (e InvalidJson) Error() string {
	return fmt.Sprintf("invalid JSON: %s", e.Msg)
}

// ParseOptions tunes the strict parser. A MaxDepth of 0 means unlimited.
type ParseOptions struct {
	MaxDepth int
}

// Parse decodes a JSON text into a tree node. Object key order is kept
// as it appears in the input. Number literals without fraction or
// exponent that fit an int64 become Integer nodes, everything else
// Double. Trailing non-whitespace input is rejected.
func Parse(data []byte, opts ParseOptions) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := parseNext(dec, opts.MaxDepth, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, InvalidJson{"trailing characters after document"}
	}
	return n, nil
}

func parseNext(dec *json.Decoder, maxDepth, depth int) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, InvalidJson{"unexpected end of input"}
		}
		return nil, InvalidJson{err.Error()}
	}
	return parseToken(dec, tok, maxDepth, depth)
}

func parseToken(dec *json.Decoder, tok json.Token, maxDepth, depth int) (*Node, error) {
	if maxDepth > 0 && depth > maxDepth {
		return nil, InvalidJson{fmt.Sprintf("document nesting exceeds limit of %d", maxDepth)}
	}
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return parseNumber(t)
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, InvalidJson{err.Error()}
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, InvalidJson{"object key is not a string"}
				}
				child, err := parseNext(dec, maxDepth, depth+1)
				if err != nil {
					return nil, err
				}
				obj.SetKey(key, child)
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, InvalidJson{err.Error()}
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				child, err := parseNext(dec, maxDepth, depth+1)
				if err != nil {
					return nil, err
				}
				arr.elems = append(arr.elems, child)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, InvalidJson{err.Error()}
			}
			return arr, nil
		default:
			return nil, InvalidJson{fmt.Sprintf("unexpected delimiter %q", t.String())}
		}
	default:
		return nil, InvalidJson{fmt.Sprintf("unexpected token %v", tok)}
	}
}

func parseNumber(num json.Number) (*Node, error) {
	s := num.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := num.Int64(); err == nil {
			return NewInt(i), nil
		}
	}
	f, err := num.Float64()
	if err != nil {
		return nil, InvalidJson{fmt.Sprintf("number out of range: %s", s)}
	}
	return NewFloat(f), nil
}
