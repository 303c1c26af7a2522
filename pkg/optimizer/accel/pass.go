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

// Package accel implements the accelerator optimization pass: it selects the
// eligible portions of a computation graph, hands them to a segment converter
// for compilation, and reports the engine nodes spliced into the result. The
// pass itself neither partitions the graph nor generates accelerator code.
package accel

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/secretflow/accelpass/pkg/converter"
	"github.com/secretflow/accelpass/pkg/graphdef"
	"github.com/secretflow/accelpass/pkg/optimizer"
	"github.com/secretflow/accelpass/pkg/shapeinfer"
)

// PassName is the name the pass registers under.
const PassName = "AcceleratorOptimizer"

// Pass drives segment conversion for one host pipeline. It carries mutable
// cross-call state (the resolved batch size and the dump run counter), so
// concurrent Optimize calls against one instance must be externally
// serialized.
type Pass struct {
	name string
	conv converter.SegmentConverter
	cfg  config

	// runs correlates the input/output dump files of one invocation and
	// advances once per Optimize call.
	runs int
}

// NewPass creates an uninitialized pass delegating to conv.
func NewPass(name string, conv converter.SegmentConverter) *Pass {
	return &Pass{name: name, conv: conv, cfg: defaultConfig()}
}

// Register wires the pass into a registry under PassName. Hosts call this
// explicitly at startup.
func Register(r *optimizer.Registry, conv converter.SegmentConverter) error {
	return r.Register(PassName, func() optimizer.GraphOptimizer {
		return NewPass(PassName, conv)
	})
}

// Name returns the pass name.
func (p *Pass) Name() string { return p.name }

// Init resolves the opaque parameter map. A nil map keeps all defaults.
func (p *Pass) Init(params optimizer.Params) error {
	logrus.Debugf("%s: init with %d parameters", p.name, len(params))
	return p.cfg.resolve(params)
}

// Optimize runs one conversion over the item's graph, populating out in
// place. Collaborator failures are returned unwrapped so the host pipeline
// can fall back to the unoptimized graph; out may then hold a partial result
// for inspection.
func (p *Pass) Optimize(cluster *optimizer.Cluster, item *optimizer.Item, out *graphdef.GraphDef) error {
	logrus.Debugf("%s: optimize called for item %q", p.name, item.ID)

	// The host pipeline re-invokes the same pass instance on nested function
	// bodies. Rewriting those would duplicate or corrupt already-produced
	// engines, so anything but the top-level graph passes through untouched.
	if item.ID != optimizer.TopLevelItemID {
		logrus.Warnf("%s invoked on non-top-level item %q; this pass must not rewrite function bodies, passing graph through", p.name, item.ID)
		*out = *item.Graph.Clone()
		return nil
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		printDebugInfo(cluster, item)
	}

	p.resolveMaxBatchSize(item)

	properties := shapeinfer.NewProperties(item)
	if err := properties.InferStatically(true); err != nil {
		return err
	}

	req := &converter.Request{
		InputGraph:          item.Graph,
		OutputGraph:         out,
		OutputNames:         normalizePreservedNames(item.NodesToPreserve()),
		MaxBatchSize:        p.cfg.maxBatchSize,
		MaxWorkspaceBytes:   p.cfg.maxWorkspaceBytes,
		PrecisionMode:       p.cfg.precisionMode,
		MinimumSegmentSize:  p.cfg.minimumSegmentSize,
		DynamicOp:           p.cfg.isDynamicOp,
		CachedEngineBatches: p.cfg.cachedEngineBatches,
		MaxCachedEngines:    p.cfg.maxCachedEngines,
		Cluster:             cluster,
		GraphProperties:     properties,
	}

	if p.cfg.printInputGraph {
		logrus.Infof("%s: input graph:\n%s", p.name, item.Graph)
	}
	if p.cfg.saveInputGraph {
		p.saveGraph(p.cfg.savedInputGraphPrefix, item.Graph)
	}

	convErr := p.conv.Convert(req)

	if p.cfg.saveOutputGraph {
		p.saveGraph(p.cfg.savedOutputGraphPrefix, out)
	}

	p.reportEngines(out)

	if p.cfg.printOutputGraph {
		logrus.Infof("%s: output graph:\n%s", p.name, out)
	}
	p.runs++
	return convErr
}

// Feedback is part of the host-pipeline contract; result scores are not
// consumed by this pass.
func (p *Pass) Feedback(cluster *optimizer.Cluster, item *optimizer.Item, optimized *graphdef.GraphDef, result float64) {
}

// resolveMaxBatchSize derives the engine batch dimension from the feeds when
// it was not configured. The resolved value is cached across calls; a
// configured value is never auto-raised.
func (p *Pass) resolveMaxBatchSize(item *optimizer.Item) {
	maxDim := int64(batchSizeUnset)
	for i := range item.Feed {
		shape := &item.Feed[i].Shape
		if shape.Dims() > 0 {
			if d := shape.DimSize(0); d > maxDim {
				maxDim = d
			}
		}
	}
	if p.cfg.maxBatchSize == batchSizeUnset {
		if maxDim > 0 {
			p.cfg.maxBatchSize = int(maxDim)
			logrus.Debugf("%s: setting maximum batch size to %d", p.name, maxDim)
		} else {
			p.cfg.maxBatchSize = defaultMaxBatchSize
			logrus.Warnf("%s: maximum batch size is not set and cannot be deduced from inputs, using %d; configure %s explicitly", p.name, defaultMaxBatchSize, keyMaxBatchSize)
		}
	} else if maxDim > int64(p.cfg.maxBatchSize) {
		logrus.Warnf("%s: configured batch size %d is less than input batch size %d; keeping the configured value", p.name, p.cfg.maxBatchSize, maxDim)
	}
}

// saveGraph persists a graph as {prefix}_{run}.pb. Dump failures are logged
// and never fail the pass.
func (p *Pass) saveGraph(prefix string, g *graphdef.GraphDef) {
	fname := fmt.Sprintf("%s_%d.pb", prefix, p.runs)
	if err := graphdef.WriteFile(fname, g); err != nil {
		logrus.Warnf("%s: failed to save graph to %s: %v", p.name, fname, err)
	}
}
