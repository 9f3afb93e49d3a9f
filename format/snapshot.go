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
	"fmt"

	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// Snapshot encoding versions. The writer always emits the current
// version; the loader accepts every listed one.
const (
	SnapshotV1 = 1
	SnapshotV2 = 2
	SnapshotV3 = 3

	CurrentSnapshotVersion = SnapshotV3
)

// v1 node-type tags of the recursive legacy encoding.
const (
	v1Null    = 0x01
	v1String  = 0x02
	v1Number  = 0x04
	v1Integer = 0x08
	v1Boolean = 0x10
	v1Dict    = 0x20
	v1Array   = 0x40
	v1KeyVal  = 0x80
)

// SnapshotWriter is the host's outbound byte stream: typed records,
// framing owned by the host.
type SnapshotWriter interface {
	WriteUnsigned(u uint64) error
	WriteSigned(i int64) error
	WriteDouble(f float64) error
	WriteStringBuffer(b []byte) error
}

// SnapshotReader is the inbound counterpart.
type SnapshotReader interface {
	ReadUnsigned() (uint64, error)
	ReadSigned() (int64, error)
	ReadDouble() (float64, error)
	ReadStringBuffer() ([]byte, error)
}

// IoError wraps a failure of the persistence byte stream.
type IoError struct {
	Op  string
	Err error
}

func (e IoError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

func (e IoError) Unwrap() error { return e.Err }

// SaveValue writes v in the current snapshot version: one UTF-8 JSON
// text record.
func SaveValue(w SnapshotWriter, v jsonvalue.Value) error {
	if err := w.WriteStringBuffer(Serialize(v)); err != nil {
		return IoError{"save", err}
	}
	return nil
}

// LoadValue reads a value written by any supported snapshot version.
func LoadValue(r SnapshotReader, version int) (*jsonvalue.Node, error) {
	switch version {
	case SnapshotV3:
		return loadJSONText(r)
	case SnapshotV2:
		n, err := loadJSONText(r)
		if err != nil {
			return nil, err
		}
		// the v2 trailer carried an index sidecar; read and discard
		count, err := r.ReadUnsigned()
		if err != nil {
			return nil, IoError{"load", err}
		}
		for i := uint64(0); i < count; i++ {
			if _, err := r.ReadStringBuffer(); err != nil {
				return nil, IoError{"load", err}
			}
			if _, err := r.ReadStringBuffer(); err != nil {
				return nil, IoError{"load", err}
			}
		}
		return n, nil
	case SnapshotV1:
		return loadV1(r)
	default:
		return nil, fmt.Errorf("cannot load snapshot version %d", version)
	}
}

func loadJSONText(r SnapshotReader) (*jsonvalue.Node, error) {
	buf, err := r.ReadStringBuffer()
	if err != nil {
		return nil, IoError{"load", err}
	}
	return jsonvalue.Parse(buf, jsonvalue.ParseOptions{})
}

// loadV1 decodes the recursive tagged encoding of the first format
// generation. KeyVal tags are only legal directly inside a Dict.
func loadV1(r SnapshotReader) (*jsonvalue.Node, error) {
	tag, err := r.ReadUnsigned()
	if err != nil {
		return nil, IoError{"load", err}
	}
	switch tag {
	case v1Null:
		return jsonvalue.NewNull(), nil
	case v1Boolean:
		buf, err := r.ReadStringBuffer()
		if err != nil {
			return nil, IoError{"load", err}
		}
		return jsonvalue.NewBool(len(buf) > 0 && buf[0] == '1'), nil
	case v1Integer:
		i, err := r.ReadSigned()
		if err != nil {
			return nil, IoError{"load", err}
		}
		return jsonvalue.NewInt(i), nil
	case v1Number:
		f, err := r.ReadDouble()
		if err != nil {
			return nil, IoError{"load", err}
		}
		return jsonvalue.NewFloat(f), nil
	case v1String:
		buf, err := r.ReadStringBuffer()
		if err != nil {
			return nil, IoError{"load", err}
		}
		return jsonvalue.NewString(string(buf)), nil
	case v1Dict:
		length, err := r.ReadUnsigned()
		if err != nil {
			return nil, IoError{"load", err}
		}
		obj := jsonvalue.NewObject()
		for i := uint64(0); i < length; i++ {
			entryTag, err := r.ReadUnsigned()
			if err != nil {
				return nil, IoError{"load", err}
			}
			if entryTag != v1KeyVal {
				return nil, fmt.Errorf("cannot load v1 snapshot: expected keyval entry, got tag %#x", entryTag)
			}
			key, err := r.ReadStringBuffer()
			if err != nil {
				return nil, IoError{"load", err}
			}
			val, err := loadV1(r)
			if err != nil {
				return nil, err
			}
			obj.SetKey(string(key), val)
		}
		return obj, nil
	case v1Array:
		length, err := r.ReadUnsigned()
		if err != nil {
			return nil, IoError{"load", err}
		}
		arr := jsonvalue.NewArray()
		for i := uint64(0); i < length; i++ {
			elem, err := loadV1(r)
			if err != nil {
				return nil, err
			}
			length2, _ := arr.Len()
			arr.InsertAt(length2, elem)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("cannot load v1 snapshot: unknown node tag %#x", tag)
	}
}
