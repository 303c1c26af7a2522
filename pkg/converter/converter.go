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

// Package converter specifies the boundary to the segment converter: the
// collaborator that partitions a computation graph into accelerator-eligible
// segments, compiles them and splices engine nodes back in. This package
// defines the request it receives and the engine-node vocabulary it emits;
// the partitioning and code generation themselves live behind the
// SegmentConverter interface.
package converter

import (
	"fmt"
	"strings"

	"github.com/secretflow/accelpass/pkg/graphdef"
	"github.com/secretflow/accelpass/pkg/optimizer"
	"github.com/secretflow/accelpass/pkg/shapeinfer"
)

// PrecisionMode selects the numeric precision engines are built for.
type PrecisionMode int

const (
	PrecisionFP32 PrecisionMode = iota
	PrecisionFP16
	PrecisionINT8
)

// ParsePrecisionMode matches a precision-mode name case-insensitively.
func ParsePrecisionMode(s string) (PrecisionMode, error) {
	switch strings.ToUpper(s) {
	case "FP32":
		return PrecisionFP32, nil
	case "FP16":
		return PrecisionFP16, nil
	case "INT8":
		return PrecisionINT8, nil
	default:
		return PrecisionFP32, fmt.Errorf("unsupported precision mode %q", s)
	}
}

func (m PrecisionMode) String() string {
	switch m {
	case PrecisionFP32:
		return "FP32"
	case PrecisionFP16:
		return "FP16"
	case PrecisionINT8:
		return "INT8"
	default:
		return fmt.Sprintf("PrecisionMode(%d)", int(m))
	}
}

// Request is the full parameter bundle for one conversion. InputGraph,
// Cluster and GraphProperties are borrowed read-only; OutputGraph is owned by
// the caller and populated in place, and may hold a partial result when
// Convert fails.
type Request struct {
	InputGraph  *graphdef.GraphDef
	OutputGraph *graphdef.GraphDef

	// OutputNames are the normalized node names that must survive conversion.
	OutputNames []string

	MaxBatchSize       int
	MaxWorkspaceBytes  int64
	PrecisionMode      PrecisionMode
	MinimumSegmentSize int

	DynamicOp           bool
	CachedEngineBatches []int
	MaxCachedEngines    int

	Cluster         *optimizer.Cluster
	GraphProperties *shapeinfer.Properties
}

// SegmentConverter compiles eligible graph regions into accelerator engines.
// Convert blocks until done; bounded latency, if needed, is the caller's
// responsibility.
type SegmentConverter interface {
	Convert(req *Request) error
}
