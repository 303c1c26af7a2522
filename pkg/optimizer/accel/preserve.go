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
	"strconv"
	"strings"
)

// normalizePreservedNames canonicalizes tensor references into node names.
// References come as "name", "name:port", or names that themselves contain
// colons; only a trailing token that parses as a non-negative integer is a
// port and gets dropped. Order and duplicates are preserved.
func normalizePreservedNames(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, normalizeNodeName(ref))
	}
	return out
}

func normalizeNodeName(ref string) string {
	tokens := strings.Split(ref, ":")
	if len(tokens) == 1 {
		return ref
	}
	last := tokens[len(tokens)-1]
	if port, err := strconv.Atoi(last); err == nil && port >= 0 {
		return strings.Join(tokens[:len(tokens)-1], ":")
	}
	return ref
}
