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
	"github.com/secretflow/accelpass/pkg/graphdef"
)

// TopLevelItemID tags the top-level graph. The pipeline re-invokes passes on
// nested function bodies under other IDs; those items must not be rewritten.
const TopLevelItemID = "top_level_graph"

// Feed is a graph input tensor supplied at execution time with its declared
// shape.
type Feed struct {
	Name  string
	Shape graphdef.TensorShapeProto
}

// Item is one optimization work unit: the graph plus its execution metadata.
// It is borrowed read-only by passes for the duration of a call.
type Item struct {
	// ID distinguishes the top-level graph from nested function bodies.
	ID    string
	Graph *graphdef.GraphDef

	Feed  []Feed
	Fetch []string

	InitOps   []string
	KeepOps   []string
	SaveOp    string
	RestoreOp string
}

// NodesToPreserve lists the node references that must survive optimization:
// fetches, feeds, init ops, explicitly kept ops and the save/restore ops.
// References may carry a ":port" suffix; duplicates are not removed.
func (it *Item) NodesToPreserve() []string {
	out := make([]string, 0, len(it.Fetch)+len(it.Feed)+len(it.InitOps)+len(it.KeepOps)+2)
	out = append(out, it.Fetch...)
	for _, f := range it.Feed {
		out = append(out, f.Name)
	}
	out = append(out, it.InitOps...)
	out = append(out, it.KeepOps...)
	if it.SaveOp != "" {
		out = append(out, it.SaveOp)
	}
	if it.RestoreOp != "" {
		out = append(out, it.RestoreOp)
	}
	return out
}
