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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNodeName(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "plain name", ref: "a/b", want: "a/b"},
		{name: "port dropped", ref: "a/b:0", want: "a/b"},
		{name: "internal colon kept", ref: "a:b:1", want: "a:b"},
		{name: "non-numeric trailing token", ref: "weird:name", want: "weird:name"},
		{name: "negative port is part of the name", ref: "a:-1", want: "a:-1"},
		{name: "empty trailing token", ref: "a:", want: "a:"},
		{name: "multi-digit port", ref: "x:12", want: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeNodeName(tt.ref))
		})
	}
}

func TestNormalizeNodeNameIdempotent(t *testing.T) {
	for _, ref := range []string{"a/b:0", "a:b:1", "weird:name", "plain"} {
		once := normalizeNodeName(ref)
		assert.Equal(t, once, normalizeNodeName(once), ref)
	}
}

func TestNormalizePreservedNamesKeepsOrderAndDuplicates(t *testing.T) {
	got := normalizePreservedNames([]string{"out:0", "x", "out:1", "x"})
	assert.Equal(t, []string{"out", "x", "out", "x"}, got)
}
