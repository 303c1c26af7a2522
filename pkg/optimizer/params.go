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

import "math"

// Params is the opaque per-pass parameter map handed over by the host
// pipeline. Values decoded from JSON arrive as float64/bool/string/[]any;
// the typed lookups below tolerate the usual numeric representations.
// Non-integral floats are rejected rather than truncated.
type Params map[string]any

// Int returns the named parameter as an int. ok is false when the key is
// absent or not numeric.
func (p Params) Int(key string) (v int, ok bool) {
	i, ok := p.Int64(key)
	return int(i), ok
}

// Int64 returns the named parameter as an int64.
func (p Params) Int64(key string) (int64, bool) {
	raw, ok := p[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// Bool returns the named parameter as a bool.
func (p Params) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

// Str returns the named parameter as a string.
func (p Params) Str(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// IntList returns the named parameter as an ordered []int.
func (p Params) IntList(key string) ([]int, bool) {
	raw, ok := p[key]
	if !ok {
		return nil, false
	}
	switch vs := raw.(type) {
	case []int:
		out := make([]int, len(vs))
		copy(out, vs)
		return out, true
	case []int64:
		out := make([]int, 0, len(vs))
		for _, v := range vs {
			out = append(out, int(v))
		}
		return out, true
	case []any:
		out := make([]int, 0, len(vs))
		for _, item := range vs {
			switch v := item.(type) {
			case int:
				out = append(out, v)
			case int64:
				out = append(out, int(v))
			case float64:
				if v != math.Trunc(v) {
					return nil, false
				}
				out = append(out, int(v))
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}
