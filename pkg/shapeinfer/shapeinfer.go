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

// Package shapeinfer derives static tensor shapes for a computation graph
// before conversion. Feed shapes are taken as ground truth and propagated
// forward through shape-preserving operations; anything else is recorded as
// shape-unknown.
package shapeinfer

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/secretflow/accelpass/pkg/graphdef"
	"github.com/secretflow/accelpass/pkg/optimizer"
)

// shapePreservingOps propagate their first data input's shape unchanged.
// Element-wise binary ops are treated the same way, which is exact whenever
// the graph does not rely on broadcasting.
var shapePreservingOps = map[string]bool{
	"Identity": true,
	"Cast":     true,
	"Relu":     true,
	"Relu6":    true,
	"Elu":      true,
	"Sigmoid":  true,
	"Tanh":     true,
	"Softmax":  true,
	"Exp":      true,
	"Log":      true,
	"Neg":      true,
	"Abs":      true,
	"Sqrt":     true,
	"Add":      true,
	"AddV2":    true,
	"Sub":      true,
	"Mul":      true,
	"Div":      true,
	"RealDiv":  true,
	"Maximum":  true,
	"Minimum":  true,
	"BiasAdd":  true,
}

// Properties holds per-node output shapes inferred for one optimize item.
type Properties struct {
	item     *optimizer.Item
	inferred bool
	shapes   map[string]*graphdef.TensorShapeProto
}

// NewProperties prepares shape inference for the item. Nothing is computed
// until InferStatically is called.
func NewProperties(item *optimizer.Item) *Properties {
	return &Properties{item: item}
}

// InferStatically walks the graph in topological order, seeding feed shapes
// and propagating them forward. With assumeUnknownAsStatic, nodes whose shape
// cannot be derived are recorded with an unknown-rank shape instead of being
// left out, so every node has a (possibly unknown) static result. Fails on a
// reference to an undefined node or a cycle.
func (p *Properties) InferStatically(assumeUnknownAsStatic bool) error {
	graph := p.item.Graph
	byName := make(map[string]*graphdef.NodeDef, len(graph.Node))
	for _, n := range graph.Node {
		byName[n.Name] = n
	}

	order, err := topologicalOrder(graph.Node, byName)
	if err != nil {
		return err
	}

	feedShapes := make(map[string]*graphdef.TensorShapeProto, len(p.item.Feed))
	for i := range p.item.Feed {
		f := &p.item.Feed[i]
		feedShapes[nodeName(f.Name)] = &f.Shape
	}

	p.shapes = make(map[string]*graphdef.TensorShapeProto, len(graph.Node))
	for _, n := range order {
		if shape, ok := feedShapes[n.Name]; ok {
			p.shapes[n.Name] = shape
			continue
		}
		if shape := p.deriveShape(n); shape != nil {
			p.shapes[n.Name] = shape
		} else if assumeUnknownAsStatic {
			p.shapes[n.Name] = &graphdef.TensorShapeProto{UnknownRank: true}
		}
	}
	p.inferred = true
	logrus.Debugf("statically inferred shapes for %d of %d nodes", len(p.shapes), len(graph.Node))
	return nil
}

// Inferred reports whether InferStatically has completed.
func (p *Properties) Inferred() bool {
	return p.inferred
}

// OutputShape returns the inferred shape for a node, if any.
func (p *Properties) OutputShape(node string) (*graphdef.TensorShapeProto, bool) {
	s, ok := p.shapes[nodeName(node)]
	return s, ok
}

func (p *Properties) deriveShape(n *graphdef.NodeDef) *graphdef.TensorShapeProto {
	if shape := n.GetAttr("shape").GetShape(); shape != nil {
		return shape
	}
	if !shapePreservingOps[n.Op] {
		return nil
	}
	for _, in := range n.Input {
		if strings.HasPrefix(in, "^") {
			continue
		}
		if s, ok := p.shapes[nodeName(in)]; ok {
			return s
		}
		return nil
	}
	return nil
}

// topologicalOrder sorts nodes so every data and control input precedes its
// consumer. Kahn's algorithm keeps the error cases cheap to detect: a missing
// producer fails fast, leftover nodes mean a cycle.
func topologicalOrder(nodes []*graphdef.NodeDef, byName map[string]*graphdef.NodeDef) ([]*graphdef.NodeDef, error) {
	indegree := make(map[string]int, len(nodes))
	consumers := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		for _, in := range n.Input {
			producer := nodeName(in)
			if _, ok := byName[producer]; !ok {
				return nil, fmt.Errorf("node %q references undefined node %q", n.Name, producer)
			}
			indegree[n.Name]++
			consumers[producer] = append(consumers[producer], n.Name)
		}
	}

	var ready []*graphdef.NodeDef
	for _, n := range nodes {
		if indegree[n.Name] == 0 {
			ready = append(ready, n)
		}
	}
	order := make([]*graphdef.NodeDef, 0, len(nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, consumer := range consumers[n.Name] {
			indegree[consumer]--
			if indegree[consumer] == 0 {
				ready = append(ready, byName[consumer])
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, fmt.Errorf("graph contains a cycle: %d of %d nodes unsortable", len(nodes)-len(order), len(nodes))
	}
	return order, nil
}

// nodeName canonicalizes an input reference: control markers (^name) and port
// suffixes (name:0) are stripped.
func nodeName(ref string) string {
	ref = strings.TrimPrefix(ref, "^")
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		if isPort(ref[i+1:]) {
			return ref[:i]
		}
	}
	return ref
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
