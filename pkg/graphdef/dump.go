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
	"fmt"
	"sort"
	"strings"
)

// String returns a human-readable dump of the graph for diagnostics.
func (g *GraphDef) String() string {
	if g == nil {
		return "nil"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "GraphDef{version: %d, nodes: %d}\n", g.Version, len(g.Node))
	for _, n := range g.Node {
		sb.WriteString(n.String())
	}
	if g.Library != nil && len(g.Library.Function) > 0 {
		fmt.Fprintf(&sb, "library [%d functions]:\n", len(g.Library.Function))
		for _, f := range g.Library.Function {
			fmt.Fprintf(&sb, "  function %s [%d nodes]\n", f.Name, len(f.Node))
		}
	}
	return sb.String()
}

// String returns a single-node dump including inputs and attributes.
func (n *NodeDef) String() string {
	if n == nil {
		return "nil"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "  node %s op=%s", n.Name, n.Op)
	if n.Device != "" {
		fmt.Fprintf(&sb, " device=%s", n.Device)
	}
	if len(n.Input) > 0 {
		fmt.Fprintf(&sb, " inputs=[%s]", strings.Join(n.Input, ", "))
	}
	if len(n.Attr) > 0 {
		keys := make([]string, 0, len(n.Attr))
		for k := range n.Attr {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" attrs={")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", k, n.Attr[k].String())
		}
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	return sb.String()
}

// String renders whichever field of the attribute is populated.
func (a *AttrValue) String() string {
	switch {
	case a == nil:
		return "nil"
	case a.Shape != nil:
		return a.Shape.String()
	case a.List != nil:
		return fmt.Sprintf("list{s: %d, i: %v}", len(a.List.S), a.List.I)
	case len(a.S) > 0:
		if isPrintable(a.S) {
			return fmt.Sprintf("%q", a.S)
		}
		return fmt.Sprintf("bytes[%d]", len(a.S))
	case a.B:
		return "true"
	case a.F != 0:
		return fmt.Sprintf("%g", a.F)
	default:
		return fmt.Sprintf("%d", a.I)
	}
}

// String renders the shape as [d0, d1, ...], with ? for unknown dims.
func (s *TensorShapeProto) String() string {
	if s == nil || s.UnknownRank {
		return "[?]"
	}
	parts := make([]string, len(s.Dim))
	for i, d := range s.Dim {
		if d == UnknownDim {
			parts[i] = "?"
		} else {
			parts[i] = fmt.Sprintf("%d", d)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
