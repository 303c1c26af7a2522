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

package accel

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/secretflow/accelpass/pkg/converter"
	"github.com/secretflow/accelpass/pkg/graphdef"
)

// reportEngines enumerates the accelerated-op nodes of the converted graph
// and emits diagnostics. Zero engines is a legitimate outcome and reported as
// a warning, not an error.
func (p *Pass) reportEngines(g *graphdef.GraphDef) {
	var engineNames []string
	for _, n := range g.Node {
		if n.Op != converter.OpAccelEngine {
			continue
		}
		engineNames = append(engineNames, n.Name)
		if p.cfg.printEngines {
			logrus.Infof("%s: engine node:\n%s", p.name, n)
			if p.cfg.printSubgraphs {
				p.printSubgraph(g, n)
			}
		}
	}
	if len(engineNames) == 0 {
		logrus.Warnf("%s: no engines created", p.name)
		return
	}
	summary := fmt.Sprintf("%s: created %d engine nodes", p.name, len(engineNames))
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		var sb strings.Builder
		for _, name := range engineNames {
			sb.WriteString("\t")
			sb.WriteString(name)
			sb.WriteString("\n")
		}
		summary += ":\n" + sb.String()
	}
	logrus.Info(summary)
}

// printSubgraph dumps the segment behind one engine node: the embedded
// sub-graph for a dynamic engine, or the function body looked up by name for
// a static one.
func (p *Pass) printSubgraph(g *graphdef.GraphDef, n *graphdef.NodeDef) {
	spec, err := converter.EngineSpecOf(n)
	if err != nil {
		logrus.Warnf("%s: cannot decode engine node %q: %v", p.name, n.Name, err)
		return
	}
	switch e := spec.(type) {
	case converter.DynamicEngine:
		segment, err := graphdef.Unmarshal(e.Segment)
		if err != nil {
			logrus.Warnf("%s: cannot decode serialized segment of %q: %v", p.name, n.Name, err)
			return
		}
		logrus.Infof("%s: sub-segment of %s:\n%s", p.name, n.Name, segment)
	case converter.StaticEngine:
		f := g.Library.Find(e.FuncName)
		if f == nil {
			logrus.Warnf("%s: function %q of engine %q not found in graph library", p.name, e.FuncName, n.Name)
			return
		}
		var sb strings.Builder
		for _, node := range f.Node {
			sb.WriteString(node.String())
		}
		logrus.Infof("%s: native segment of %s (function %s):\n%s", p.name, n.Name, f.Name, sb.String())
	}
}
