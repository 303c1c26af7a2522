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

// Package graphdef defines the computation-graph model exchanged between the
// host pipeline, the optimization passes and the segment converter, together
// with a protobuf wire-format codec so graphs can be persisted as .pb files.
package graphdef

// UnknownDim marks a dimension whose size is not known statically.
const UnknownDim int64 = -1

// GraphDef is a computation graph: an ordered list of nodes plus an optional
// library of function bodies referenced by name.
type GraphDef struct {
	Node    []*NodeDef
	Library *FunctionDefLibrary
	Version int32
}

// NodeDef is a single operation node.
type NodeDef struct {
	Name   string
	Op     string
	Input  []string
	Device string
	Attr   map[string]*AttrValue
}

// AttrValue holds one node attribute. Exactly one field is meaningful,
// selected by the producer; getters tolerate nil receivers.
type AttrValue struct {
	S     []byte
	I     int64
	F     float32
	B     bool
	Shape *TensorShapeProto
	List  *AttrValueList
}

// AttrValueList holds repeated attribute values.
type AttrValueList struct {
	S [][]byte
	I []int64
}

// TensorShapeProto describes a tensor shape. A dim of UnknownDim is a
// statically unknown size; UnknownRank means even the rank is unknown.
type TensorShapeProto struct {
	Dim         []int64
	UnknownRank bool
}

// FunctionDefLibrary is the set of function bodies attached to a graph.
type FunctionDefLibrary struct {
	Function []*FunctionDef
}

// FunctionDef is a named function body.
type FunctionDef struct {
	Name string
	Node []*NodeDef
}

func (a *AttrValue) GetS() []byte {
	if a == nil {
		return nil
	}
	return a.S
}

func (a *AttrValue) GetI() int64 {
	if a == nil {
		return 0
	}
	return a.I
}

func (a *AttrValue) GetB() bool {
	if a == nil {
		return false
	}
	return a.B
}

func (a *AttrValue) GetShape() *TensorShapeProto {
	if a == nil {
		return nil
	}
	return a.Shape
}

// GetAttr returns the named attribute, or nil if the node does not carry it.
func (n *NodeDef) GetAttr(name string) *AttrValue {
	if n == nil {
		return nil
	}
	return n.Attr[name]
}

// SetAttr stores an attribute, allocating the map on first use.
func (n *NodeDef) SetAttr(name string, v *AttrValue) {
	if n.Attr == nil {
		n.Attr = make(map[string]*AttrValue)
	}
	n.Attr[name] = v
}

// Dims returns the rank of the shape, 0 for an unknown-rank shape.
func (s *TensorShapeProto) Dims() int {
	if s == nil || s.UnknownRank {
		return 0
	}
	return len(s.Dim)
}

// DimSize returns the size of dimension i; UnknownDim if out of range.
func (s *TensorShapeProto) DimSize(i int) int64 {
	if s == nil || s.UnknownRank || i < 0 || i >= len(s.Dim) {
		return UnknownDim
	}
	return s.Dim[i]
}

// Find returns the first function whose name matches, or nil.
func (l *FunctionDefLibrary) Find(name string) *FunctionDef {
	if l == nil {
		return nil
	}
	for _, f := range l.Function {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (g *GraphDef) Clone() *GraphDef {
	if g == nil {
		return nil
	}
	out := &GraphDef{Version: g.Version}
	for _, n := range g.Node {
		out.Node = append(out.Node, n.clone())
	}
	if g.Library != nil {
		lib := &FunctionDefLibrary{}
		for _, f := range g.Library.Function {
			fn := &FunctionDef{Name: f.Name}
			for _, n := range f.Node {
				fn.Node = append(fn.Node, n.clone())
			}
			lib.Function = append(lib.Function, fn)
		}
		out.Library = lib
	}
	return out
}

func (n *NodeDef) clone() *NodeDef {
	out := &NodeDef{Name: n.Name, Op: n.Op, Device: n.Device}
	out.Input = append(out.Input, n.Input...)
	for k, v := range n.Attr {
		out.SetAttr(k, v.clone())
	}
	return out
}

func (a *AttrValue) clone() *AttrValue {
	if a == nil {
		return nil
	}
	out := &AttrValue{I: a.I, F: a.F, B: a.B}
	out.S = append(out.S, a.S...)
	if a.Shape != nil {
		out.Shape = &TensorShapeProto{UnknownRank: a.Shape.UnknownRank}
		out.Shape.Dim = append(out.Shape.Dim, a.Shape.Dim...)
	}
	if a.List != nil {
		out.List = &AttrValueList{}
		for _, s := range a.List.S {
			out.List.S = append(out.List.S, append([]byte(nil), s...))
		}
		out.List.I = append(out.List.I, a.List.I...)
	}
	return out
}
