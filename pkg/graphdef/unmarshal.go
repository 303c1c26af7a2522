// Copyright 2026 Ant Group Co., Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graphdef

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Unmarshal decodes a graph from protobuf wire format. Unknown fields are
// skipped so newer producers stay readable.
func Unmarshal(data []byte) (*GraphDef, error) {
	g := &GraphDef{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case fieldGraphNode:
			body, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			n, err := unmarshalNode(body)
			if err != nil {
				return nil, err
			}
			g.Node = append(g.Node, n)
		case fieldGraphLibrary:
			body, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			lib, err := unmarshalLibrary(body)
			if err != nil {
				return nil, err
			}
			g.Library = lib
		case fieldGraphVersion:
			v, err := d.readVarint()
			if err != nil {
				return nil, err
			}
			g.Version = int32(v)
		default:
			if err := d.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// ReadFile reads and decodes a serialized graph.
func ReadFile(path string) (*GraphDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return Unmarshal(data)
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) done() bool { return d.pos >= len(d.data) }

func (d *decoder) readTag() (fieldNum, wireType int, err error) {
	v, err := d.rawVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), int(v & 7), nil
}

func (d *decoder) rawVarint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("malformed varint at offset %d", d.pos)
	}
	d.pos += n
	return v, nil
}

func (d *decoder) readVarint() (int64, error) {
	v, err := d.rawVarint()
	return int64(v), err
}

func (d *decoder) readBytes() ([]byte, error) {
	n, err := d.rawVarint()
	if err != nil {
		return nil, err
	}
	if uint64(len(d.data)-d.pos) < n {
		return nil, fmt.Errorf("truncated field at offset %d", d.pos)
	}
	b := d.data[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return b, nil
}

func (d *decoder) readFloat() (float32, error) {
	if len(d.data)-d.pos < 4 {
		return 0, fmt.Errorf("truncated float at offset %d", d.pos)
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(d.data[d.pos:]))
	d.pos += 4
	return v, nil
}

func (d *decoder) skip(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := d.rawVarint()
		return err
	case wireBytes:
		_, err := d.readBytes()
		return err
	case wire32Bit:
		_, err := d.readFloat()
		return err
	case wire64Bit:
		if len(d.data)-d.pos < 8 {
			return fmt.Errorf("truncated fixed64 at offset %d", d.pos)
		}
		d.pos += 8
		return nil
	default:
		return fmt.Errorf("unsupported wire type %d at offset %d", wireType, d.pos)
	}
}

func unmarshalNode(data []byte) (*NodeDef, error) {
	n := &NodeDef{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case fieldNodeName:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			n.Name = string(b)
		case fieldNodeOp:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			n.Op = string(b)
		case fieldNodeInput:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			n.Input = append(n.Input, string(b))
		case fieldNodeDevice:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			n.Device = string(b)
		case fieldNodeAttr:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			key, val, err := unmarshalAttrEntry(b)
			if err != nil {
				return nil, err
			}
			n.SetAttr(key, val)
		default:
			if err := d.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func unmarshalAttrEntry(data []byte) (string, *AttrValue, error) {
	var key string
	val := &AttrValue{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return "", nil, err
		}
		switch fieldNum {
		case fieldAttrEntryKey:
			b, err := d.readBytes()
			if err != nil {
				return "", nil, err
			}
			key = string(b)
		case fieldAttrEntryValue:
			b, err := d.readBytes()
			if err != nil {
				return "", nil, err
			}
			if val, err = unmarshalAttr(b); err != nil {
				return "", nil, err
			}
		default:
			if err := d.skip(wireType); err != nil {
				return "", nil, err
			}
		}
	}
	return key, val, nil
}

func unmarshalAttr(data []byte) (*AttrValue, error) {
	a := &AttrValue{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case fieldAttrS:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			a.S = append([]byte(nil), b...)
		case fieldAttrI:
			v, err := d.readVarint()
			if err != nil {
				return nil, err
			}
			a.I = v
		case fieldAttrF:
			v, err := d.readFloat()
			if err != nil {
				return nil, err
			}
			a.F = v
		case fieldAttrB:
			v, err := d.readVarint()
			if err != nil {
				return nil, err
			}
			a.B = v != 0
		case fieldAttrShape:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			if a.Shape, err = unmarshalShape(b); err != nil {
				return nil, err
			}
		case fieldAttrList:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			if a.List, err = unmarshalList(b); err != nil {
				return nil, err
			}
		default:
			if err := d.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

func unmarshalList(data []byte) (*AttrValueList, error) {
	l := &AttrValueList{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case fieldListS:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			l.S = append(l.S, append([]byte(nil), b...))
		case fieldListI:
			v, err := d.readVarint()
			if err != nil {
				return nil, err
			}
			l.I = append(l.I, v)
		default:
			if err := d.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return l, nil
}

func unmarshalShape(data []byte) (*TensorShapeProto, error) {
	s := &TensorShapeProto{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case fieldShapeDim:
			v, err := d.readVarint()
			if err != nil {
				return nil, err
			}
			s.Dim = append(s.Dim, v)
		case fieldShapeUnknownRank:
			v, err := d.readVarint()
			if err != nil {
				return nil, err
			}
			s.UnknownRank = v != 0
		default:
			if err := d.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func unmarshalLibrary(data []byte) (*FunctionDefLibrary, error) {
	lib := &FunctionDefLibrary{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case fieldLibraryFunction:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			f, err := unmarshalFunction(b)
			if err != nil {
				return nil, err
			}
			lib.Function = append(lib.Function, f)
		default:
			if err := d.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return lib, nil
}

func unmarshalFunction(data []byte) (*FunctionDef, error) {
	f := &FunctionDef{}
	d := &decoder{data: data}
	for !d.done() {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case fieldFunctionName:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			f.Name = string(b)
		case fieldFunctionNode:
			b, err := d.readBytes()
			if err != nil {
				return nil, err
			}
			n, err := unmarshalNode(b)
			if err != nil {
				return nil, err
			}
			f.Node = append(f.Node, n)
		default:
			if err := d.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
