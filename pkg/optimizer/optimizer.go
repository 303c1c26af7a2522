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

// Package optimizer defines the contract between the host pipeline and graph
// optimization passes: the optimizer interface, the per-graph optimize item,
// the read-only cluster descriptor, an explicit pass registry and a pipeline
// runner that drives registered passes in order.
package optimizer

import (
	"github.com/secretflow/accelpass/pkg/graphdef"
)

// GraphOptimizer is a single optimization pass driven by the host pipeline.
// The pipeline calls Init once with the pass's opaque parameter map, then
// Optimize per graph, then Feedback with a result score. Calls against one
// instance must be externally serialized.
type GraphOptimizer interface {
	// Name returns the pass name for registration, logging and debugging.
	Name() string
	// Init resolves the opaque parameter map into the pass configuration.
	// A nil map applies all defaults.
	Init(params Params) error
	// Optimize rewrites item's graph into out. out is owned by the caller and
	// populated in place; on failure it may hold a partial result.
	Optimize(cluster *Cluster, item *Item, out *graphdef.GraphDef) error
	// Feedback reports the measured result of a previous optimization.
	Feedback(cluster *Cluster, item *Item, optimized *graphdef.GraphDef, result float64)
}
