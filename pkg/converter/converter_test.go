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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretflow/accelpass/pkg/graphdef"
)

func TestParsePrecisionMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PrecisionMode
		wantErr bool
	}{
		{in: "FP32", want: PrecisionFP32},
		{in: "fp16", want: PrecisionFP16},
		{in: "Int8", want: PrecisionINT8},
		{in: "FP64", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			mode, err := ParsePrecisionMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
			assert.NotEmpty(t, mode.String())
		})
	}
}

func TestEngineSpecOfStatic(t *testing.T) {
	n := NewStaticEngineNode("engine_0", "seg_0", []string{"input"})
	spec, err := EngineSpecOf(n)
	require.NoError(t, err)
	assert.Equal(t, StaticEngine{FuncName: "seg_0"}, spec)
}

func TestEngineSpecOfDynamic(t *testing.T) {
	segment := &graphdef.GraphDef{Node: []*graphdef.NodeDef{{Name: "relu", Op: "Relu"}}}
	n := NewDynamicEngineNode("engine_0", segment, []string{"input"})

	spec, err := EngineSpecOf(n)
	require.NoError(t, err)
	dyn, ok := spec.(DynamicEngine)
	require.True(t, ok)

	decoded, err := graphdef.Unmarshal(dyn.Segment)
	require.NoError(t, err)
	assert.Equal(t, segment, decoded)
}

func TestEngineSpecOfRejectsMalformedNodes(t *testing.T) {
	_, err := EngineSpecOf(&graphdef.NodeDef{Name: "plain", Op: "Relu"})
	assert.Error(t, err)

	static := &graphdef.NodeDef{Name: "e", Op: OpAccelEngine}
	static.SetAttr(AttrStaticEngine, &graphdef.AttrValue{B: true})
	_, err = EngineSpecOf(static)
	assert.Error(t, err)

	dynamic := &graphdef.NodeDef{Name: "e", Op: OpAccelEngine}
	_, err = EngineSpecOf(dynamic)
	assert.Error(t, err)
}

func TestPassthroughCopiesGraph(t *testing.T) {
	in := &graphdef.GraphDef{Node: []*graphdef.NodeDef{{Name: "a", Op: "Relu", Input: []string{"b"}}}}
	out := &graphdef.GraphDef{}
	req := &Request{InputGraph: in, OutputGraph: out}

	require.NoError(t, Passthrough{}.Convert(req))
	assert.Equal(t, graphdef.Marshal(in), graphdef.Marshal(out))

	// The copy must not alias the input.
	out.Node[0].Name = "renamed"
	assert.Equal(t, "a", in.Node[0].Name)
}

func TestPassthroughRequiresGraphs(t *testing.T) {
	assert.Error(t, Passthrough{}.Convert(&Request{}))
}
