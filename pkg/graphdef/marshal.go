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
	"math"
	"os"
	"sort"
)

// Protobuf wire types.
const (
	wireVarint = 0 // int64, bool
	wire64Bit  = 1 // fixed64
	wireBytes  = 2 // string, bytes, embedded messages
	wire32Bit  = 5 // float
)

// Field numbers of the GraphDef wire schema. The decoder in unmarshal.go must
// stay in sync with these.
const (
	fieldGraphNode    = 1
	fieldGraphLibrary = 2
	fieldGraphVersion = 3

	fieldNodeName   = 1
	fieldNodeOp     = 2
	fieldNodeInput  = 3
	fieldNodeDevice = 4
	fieldNodeAttr   = 5

	fieldAttrEntryKey   = 1
	fieldAttrEntryValue = 2

	fieldAttrS     = 1
	fieldAttrI     = 2
	fieldAttrF     = 3
	fieldAttrB     = 4
	fieldAttrShape = 5
	fieldAttrList  = 6

	fieldListS = 1
	fieldListI = 2

	fieldShapeDim         = 1
	fieldShapeUnknownRank = 2

	fieldLibraryFunction = 1

	fieldFunctionName = 1
	fieldFunctionNode = 2
)

// Marshal serializes the graph in protobuf wire format. The encoding is
// deterministic: node order is preserved and attribute keys are sorted.
func Marshal(g *GraphDef) []byte {
	e := &encoder{}
	for _, n := range g.Node {
		e.writeMessage(fieldGraphNode, marshalNode(n))
	}
	if g.Library != nil {
		e.writeMessage(fieldGraphLibrary, marshalLibrary(g.Library))
	}
	if g.Version != 0 {
		e.writeVarint(fieldGraphVersion, uint64(g.Version))
	}
	return e.buf
}

// WriteFile serializes the graph to a file, typically named with a .pb suffix.
func WriteFile(path string, g *GraphDef) error {
	return os.WriteFile(path, Marshal(g), 0o644)
}

type encoder struct {
	buf []byte
}

func (e *encoder) writeTag(fieldNum, wireType int) {
	e.rawVarint(uint64(fieldNum)<<3 | uint64(wireType))
}

func (e *encoder) rawVarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

func (e *encoder) writeVarint(fieldNum int, v uint64) {
	e.writeTag(fieldNum, wireVarint)
	e.rawVarint(v)
}

func (e *encoder) writeBool(fieldNum int, v bool) {
	if !v {
		return
	}
	e.writeVarint(fieldNum, 1)
}

func (e *encoder) writeBytes(fieldNum int, v []byte) {
	e.writeTag(fieldNum, wireBytes)
	e.rawVarint(uint64(len(v)))
	e.buf = append(e.buf, v...)
}

func (e *encoder) writeString(fieldNum int, v string) {
	if v == "" {
		return
	}
	e.writeBytes(fieldNum, []byte(v))
}

func (e *encoder) writeFloat(fieldNum int, v float32) {
	e.writeTag(fieldNum, wire32Bit)
	e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(v))
}

func (e *encoder) writeMessage(fieldNum int, body []byte) {
	e.writeBytes(fieldNum, body)
}

func marshalNode(n *NodeDef) []byte {
	e := &encoder{}
	e.writeString(fieldNodeName, n.Name)
	e.writeString(fieldNodeOp, n.Op)
	for _, in := range n.Input {
		e.writeBytes(fieldNodeInput, []byte(in))
	}
	e.writeString(fieldNodeDevice, n.Device)
	keys := make([]string, 0, len(n.Attr))
	for k := range n.Attr {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry := &encoder{}
		entry.writeString(fieldAttrEntryKey, k)
		entry.writeMessage(fieldAttrEntryValue, marshalAttr(n.Attr[k]))
		e.writeMessage(fieldNodeAttr, entry.buf)
	}
	return e.buf
}

func marshalAttr(a *AttrValue) []byte {
	e := &encoder{}
	if a == nil {
		return e.buf
	}
	if len(a.S) > 0 {
		e.writeBytes(fieldAttrS, a.S)
	}
	if a.I != 0 {
		e.writeVarint(fieldAttrI, uint64(a.I))
	}
	if a.F != 0 {
		e.writeFloat(fieldAttrF, a.F)
	}
	e.writeBool(fieldAttrB, a.B)
	if a.Shape != nil {
		e.writeMessage(fieldAttrShape, marshalShape(a.Shape))
	}
	if a.List != nil {
		e.writeMessage(fieldAttrList, marshalList(a.List))
	}
	return e.buf
}

func marshalList(l *AttrValueList) []byte {
	e := &encoder{}
	for _, s := range l.S {
		e.writeBytes(fieldListS, s)
	}
	for _, i := range l.I {
		e.writeVarint(fieldListI, uint64(i))
	}
	return e.buf
}

func marshalShape(s *TensorShapeProto) []byte {
	e := &encoder{}
	for _, d := range s.Dim {
		e.writeVarint(fieldShapeDim, uint64(d))
	}
	e.writeBool(fieldShapeUnknownRank, s.UnknownRank)
	return e.buf
}

func marshalLibrary(l *FunctionDefLibrary) []byte {
	e := &encoder{}
	for _, f := range l.Function {
		fe := &encoder{}
		fe.writeString(fieldFunctionName, f.Name)
		for _, n := range f.Node {
			fe.writeMessage(fieldFunctionNode, marshalNode(n))
		}
		e.writeMessage(fieldLibraryFunction, fe.buf)
	}
	return e.buf
}
