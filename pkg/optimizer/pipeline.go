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

package optimizer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/secretflow/accelpass/pkg/graphdef"
)

// Pipeline drives an ordered sequence of optimizers over one graph. Each
// stage's output graph becomes the next stage's input. The pipeline is
// single-threaded; it issues one call at a time.
type Pipeline struct {
	optimizers []GraphOptimizer
}

// NewPipeline builds a pipeline from already-initialized optimizers.
func NewPipeline(optimizers ...GraphOptimizer) *Pipeline {
	return &Pipeline{optimizers: optimizers}
}

// Run optimizes the item's graph through every stage and returns the final
// graph. A stage failure aborts the run with the stage name attached.
func (p *Pipeline) Run(cluster *Cluster, item *Item) (*graphdef.GraphDef, error) {
	current := *item
	for _, opt := range p.optimizers {
		logrus.Debugf("optimization stage: %s", opt.Name())
		out := &graphdef.GraphDef{}
		if err := opt.Optimize(cluster, &current, out); err != nil {
			return nil, fmt.Errorf("[%s] failed: %w", opt.Name(), err)
		}
		opt.Feedback(cluster, &current, out, 0)
		current.Graph = out
	}
	return current.Graph, nil
}
