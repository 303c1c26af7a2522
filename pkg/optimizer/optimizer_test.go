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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretflow/accelpass/pkg/graphdef"
)

// renameOptimizer rewrites every node name with a suffix; its Optimize can be
// forced to fail.
type renameOptimizer struct {
	name   string
	suffix string
	fail   bool

	feedbackCalls int
}

func (o *renameOptimizer) Name() string { return o.name }

func (o *renameOptimizer) Init(params Params) error { return nil }

func (o *renameOptimizer) Optimize(cluster *Cluster, item *Item, out *graphdef.GraphDef) error {
	if o.fail {
		return fmt.Errorf("forced failure")
	}
	*out = *item.Graph.Clone()
	for _, n := range out.Node {
		n.Name += o.suffix
	}
	return nil
}

func (o *renameOptimizer) Feedback(cluster *Cluster, item *Item, optimized *graphdef.GraphDef, result float64) {
	o.feedbackCalls++
}

func testItem() *Item {
	return &Item{
		ID: TopLevelItemID,
		Graph: &graphdef.GraphDef{Node: []*graphdef.NodeDef{
			{Name: "a", Op: "Placeholder"},
		}},
	}
}

func TestPipelineChainsStages(t *testing.T) {
	first := &renameOptimizer{name: "first", suffix: "_1"}
	second := &renameOptimizer{name: "second", suffix: "_2"}
	p := NewPipeline(first, second)

	out, err := p.Run(nil, testItem())
	require.NoError(t, err)
	require.Len(t, out.Node, 1)
	// Output of stage one is input of stage two.
	assert.Equal(t, "a_1_2", out.Node[0].Name)
	assert.Equal(t, 1, first.feedbackCalls)
	assert.Equal(t, 1, second.feedbackCalls)
}

func TestPipelineWrapsStageError(t *testing.T) {
	p := NewPipeline(&renameOptimizer{name: "broken", fail: true})
	_, err := p.Run(nil, testItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[broken] failed")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("rename", func() GraphOptimizer {
		return &renameOptimizer{name: "rename"}
	}))

	err := r.Register("rename", func() GraphOptimizer { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	opt, err := r.New("rename")
	require.NoError(t, err)
	assert.Equal(t, "rename", opt.Name())

	_, err = r.New("missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"rename"}, r.Names())
}

func TestNodesToPreserveOrdering(t *testing.T) {
	item := &Item{
		Fetch:     []string{"out:0", "aux"},
		Feed:      []Feed{{Name: "x"}, {Name: "y"}},
		InitOps:   []string{"init_all_tables"},
		KeepOps:   []string{"keep_me"},
		SaveOp:    "save",
		RestoreOp: "restore",
	}
	assert.Equal(t,
		[]string{"out:0", "aux", "x", "y", "init_all_tables", "keep_me", "save", "restore"},
		item.NodesToPreserve())

	// Absent save/restore ops contribute nothing.
	bare := &Item{Fetch: []string{"out"}}
	assert.Equal(t, []string{"out"}, bare.NodesToPreserve())

	// Init ops are side-effecting and must survive conversion.
	withInit := &Item{Fetch: []string{"out"}, InitOps: []string{"init_all_tables"}}
	assert.Contains(t, withInit.NodesToPreserve(), "init_all_tables")
}

func TestParamsLookups(t *testing.T) {
	p := Params{
		"int":       3,
		"float":     float64(7),
		"int64":     int64(9),
		"bool":      true,
		"str":       "FP16",
		"list":      []any{float64(1), float64(8)},
		"int_list":  []int{2, 4},
		"wrongtype": "nope",
	}

	v, ok := p.Int("int")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = p.Int("float")
	require.True(t, ok)
	assert.Equal(t, 7, v)

	i64, ok := p.Int64("int64")
	require.True(t, ok)
	assert.Equal(t, int64(9), i64)

	b, ok := p.Bool("bool")
	require.True(t, ok)
	assert.True(t, b)

	s, ok := p.Str("str")
	require.True(t, ok)
	assert.Equal(t, "FP16", s)

	l, ok := p.IntList("list")
	require.True(t, ok)
	assert.Equal(t, []int{1, 8}, l)

	l, ok = p.IntList("int_list")
	require.True(t, ok)
	assert.Equal(t, []int{2, 4}, l)

	_, ok = p.Int("missing")
	assert.False(t, ok)
	_, ok = p.Int("wrongtype")
	assert.False(t, ok)
	_, ok = p.IntList("wrongtype")
	assert.False(t, ok)
}

func TestParamsRejectNonIntegralFloats(t *testing.T) {
	p := Params{
		"fraction":      16.5,
		"fraction_list": []any{float64(1), 8.25},
	}

	_, ok := p.Int("fraction")
	assert.False(t, ok)
	_, ok = p.Int64("fraction")
	assert.False(t, ok)
	_, ok = p.IntList("fraction_list")
	assert.False(t, ok)
}

func TestClusterAccessors(t *testing.T) {
	c := NewCluster("gpu", map[string]DeviceProperties{
		"/device:GPU:1": {Type: "GPU"},
		"/device:GPU:0": {Type: "GPU"},
	}, map[string]uint64{"/device:GPU:0": 1 << 30})

	assert.Equal(t, []string{"/device:GPU:0", "/device:GPU:1"}, c.DeviceNames())

	peak, err := c.PeakMemoryUsage()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<30), peak["/device:GPU:0"])

	bare := NewCluster("cpu", nil, nil)
	_, err = bare.PeakMemoryUsage()
	assert.Error(t, err)
}
