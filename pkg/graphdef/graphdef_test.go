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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *GraphDef {
	g := &GraphDef{Version: 27}
	input := &NodeDef{Name: "input", Op: "Placeholder"}
	input.SetAttr("shape", &AttrValue{Shape: &TensorShapeProto{Dim: []int64{UnknownDim, 28, 28}}})
	relu := &NodeDef{Name: "relu", Op: "Relu", Input: []string{"input"}, Device: "/device:GPU:0"}
	relu.SetAttr("alpha", &AttrValue{F: 0.01})
	out := &NodeDef{Name: "out", Op: "Identity", Input: []string{"relu:0", "^input"}}
	out.SetAttr("note", &AttrValue{S: []byte("fetch")})
	out.SetAttr("batches", &AttrValue{List: &AttrValueList{I: []int64{1, 8, 32}}})
	g.Node = []*NodeDef{input, relu, out}
	g.Library = &FunctionDefLibrary{
		Function: []*FunctionDef{
			{Name: "seg_0", Node: []*NodeDef{{Name: "relu", Op: "Relu", Input: []string{"input"}}}},
		},
	}
	return g
}

func TestMarshalRoundTrip(t *testing.T) {
	g := sampleGraph()
	data := Marshal(g)
	require.NotEmpty(t, data)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)
}

func TestMarshalDeterministic(t *testing.T) {
	g := sampleGraph()
	assert.Equal(t, Marshal(g), Marshal(g))
	assert.Equal(t, Marshal(g), Marshal(g.Clone()))
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	g := sampleGraph()
	data := Marshal(g)

	// Append an unknown top-level field (field 100, bytes).
	extra := &encoder{}
	extra.writeBytes(100, []byte("future"))
	data = append(data, extra.buf...)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)
}

func TestUnmarshalTruncated(t *testing.T) {
	data := Marshal(sampleGraph())
	_, err := Unmarshal(data[:len(data)-3])
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	g := sampleGraph()
	c := g.Clone()
	require.Equal(t, Marshal(g), Marshal(c))

	c.Node[0].Name = "renamed"
	c.Node[2].Attr["note"].S[0] = 'X'
	c.Library.Function[0].Name = "other"

	assert.Equal(t, "input", g.Node[0].Name)
	assert.Equal(t, []byte("fetch"), g.Node[2].GetAttr("note").GetS())
	assert.Equal(t, "seg_0", g.Library.Function[0].Name)
}

func TestReadWriteFile(t *testing.T) {
	g := sampleGraph()
	path := filepath.Join(t.TempDir(), "graph.pb")
	require.NoError(t, WriteFile(path, g))

	decoded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)
}

func TestLibraryFind(t *testing.T) {
	lib := &FunctionDefLibrary{Function: []*FunctionDef{
		{Name: "a"},
		{Name: "b", Node: []*NodeDef{{Name: "first"}}},
		{Name: "b", Node: []*NodeDef{{Name: "second"}}},
	}}

	f := lib.Find("b")
	require.NotNil(t, f)
	// First match wins.
	assert.Equal(t, "first", f.Node[0].Name)

	assert.Nil(t, lib.Find("missing"))
	var none *FunctionDefLibrary
	assert.Nil(t, none.Find("a"))
}

func TestShapeAccessors(t *testing.T) {
	tests := []struct {
		name     string
		shape    *TensorShapeProto
		dims     int
		dim0     int64
		rendered string
	}{
		{name: "known", shape: &TensorShapeProto{Dim: []int64{32, 8}}, dims: 2, dim0: 32, rendered: "[32, 8]"},
		{name: "unknown leading dim", shape: &TensorShapeProto{Dim: []int64{UnknownDim, 8}}, dims: 2, dim0: UnknownDim, rendered: "[?, 8]"},
		{name: "unknown rank", shape: &TensorShapeProto{UnknownRank: true}, dims: 0, dim0: UnknownDim, rendered: "[?]"},
		{name: "nil", shape: nil, dims: 0, dim0: UnknownDim, rendered: "[?]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dims, tt.shape.Dims())
			assert.Equal(t, tt.dim0, tt.shape.DimSize(0))
			assert.Equal(t, tt.rendered, tt.shape.String())
		})
	}
}

func TestGraphString(t *testing.T) {
	s := sampleGraph().String()
	assert.Contains(t, s, "node input op=Placeholder")
	assert.Contains(t, s, "inputs=[relu:0, ^input]")
	assert.Contains(t, s, "function seg_0")
}
