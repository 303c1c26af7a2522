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

package converter

import (
	"fmt"

	"github.com/secretflow/accelpass/pkg/graphdef"
)

// OpAccelEngine marks a node that replaces a compiled segment.
const OpAccelEngine = "AccelEngineOp"

// Engine-node attribute names.
const (
	AttrStaticEngine      = "static_engine"
	AttrSegmentFuncName   = "segment_func_name"
	AttrSerializedSegment = "serialized_segment"
)

// EngineSpec is the engine variant carried by an accelerated-op node.
type EngineSpec interface {
	isEngineSpec()
}

// StaticEngine is a segment pre-compiled for a fixed shape assumption; its
// fallback body lives in the graph's function library under FuncName.
type StaticEngine struct {
	FuncName string
}

// DynamicEngine is a segment compiled lazily per observed shape; the original
// sub-graph is embedded for fallback execution.
type DynamicEngine struct {
	Segment []byte
}

func (StaticEngine) isEngineSpec()  {}
func (DynamicEngine) isEngineSpec() {}

// EngineSpecOf decodes the engine variant from an accelerated-op node.
func EngineSpecOf(n *graphdef.NodeDef) (EngineSpec, error) {
	if n.Op != OpAccelEngine {
		return nil, fmt.Errorf("node %q is not an %s (op=%q)", n.Name, OpAccelEngine, n.Op)
	}
	if n.GetAttr(AttrStaticEngine).GetB() {
		name := string(n.GetAttr(AttrSegmentFuncName).GetS())
		if name == "" {
			return nil, fmt.Errorf("static engine node %q lacks %s", n.Name, AttrSegmentFuncName)
		}
		return StaticEngine{FuncName: name}, nil
	}
	segment := n.GetAttr(AttrSerializedSegment).GetS()
	if len(segment) == 0 {
		return nil, fmt.Errorf("dynamic engine node %q lacks %s", n.Name, AttrSerializedSegment)
	}
	return DynamicEngine{Segment: segment}, nil
}

// NewStaticEngineNode builds an accelerated-op node whose fallback body is
// the named function in the graph library.
func NewStaticEngineNode(name, funcName string, inputs []string) *graphdef.NodeDef {
	n := &graphdef.NodeDef{Name: name, Op: OpAccelEngine, Input: inputs}
	n.SetAttr(AttrStaticEngine, &graphdef.AttrValue{B: true})
	n.SetAttr(AttrSegmentFuncName, &graphdef.AttrValue{S: []byte(funcName)})
	return n
}

// NewDynamicEngineNode builds an accelerated-op node embedding the original
// sub-graph for lazy compilation and fallback.
func NewDynamicEngineNode(name string, segment *graphdef.GraphDef, inputs []string) *graphdef.NodeDef {
	n := &graphdef.NodeDef{Name: name, Op: OpAccelEngine, Input: inputs}
	n.SetAttr(AttrStaticEngine, &graphdef.AttrValue{B: false})
	n.SetAttr(AttrSerializedSegment, &graphdef.AttrValue{S: graphdef.Marshal(segment)})
	return n
}
