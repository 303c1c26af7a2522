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
	"fmt"
)

// Passthrough is a segment converter that performs no acceleration: the
// output graph is a copy of the input and zero engines are produced. Useful
// as a pipeline placeholder and in tests; producing no engines is a
// legitimate conversion outcome.
type Passthrough struct{}

// Convert copies the input graph into the output buffer unchanged.
func (Passthrough) Convert(req *Request) error {
	if req.InputGraph == nil || req.OutputGraph == nil {
		return fmt.Errorf("conversion request missing input or output graph")
	}
	*req.OutputGraph = *req.InputGraph.Clone()
	return nil
}
