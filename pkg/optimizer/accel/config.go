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
	"fmt"

	"github.com/secretflow/accelpass/pkg/converter"
	"github.com/secretflow/accelpass/pkg/optimizer"
)

// Parameter-map keys understood by the pass. Unknown keys are ignored.
const (
	keyMinimumSegmentSize    = "minimum_segment_size"
	keyMaxBatchSize          = "max_batch_size"
	keyIsDynamicOp           = "is_dynamic_op"
	keyCachedEngineBatches   = "cached_engine_batches"
	keyMaximumCachedEngines  = "maximum_cached_engines"
	keyMaxWorkspaceSizeBytes = "max_workspace_size_bytes"
	keyPrecisionMode         = "precision_mode"
	keyPrintInputGraph       = "print_input_graph"
	keyPrintEngines          = "print_engines"
	keyPrintSubgraphs        = "print_subgraphs"
	keyPerEngineWorkspace    = "per_engine_workspace_size"
	keyPrintOutputGraph      = "print_output_graph"
	keySaveInputGraph        = "save_input_graph"
	keySaveOutputGraph       = "save_output_graph"
	keySavedInputPrefix      = "saved_input_graph_prefix"
	keySavedOutputPrefix     = "saved_output_graph_prefix"
)

// batchSizeUnset marks maximum batch size as not yet resolved.
const batchSizeUnset = -1

// defaultMaxBatchSize is used when the batch size is neither configured nor
// deducible from the feeds.
const defaultMaxBatchSize = 128

// ConfigError reports a malformed pass parameter. It is fatal to Init.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid value %q for parameter %q: %v", e.Value, e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// config is the resolved pass configuration. Immutable once Init completes,
// except maxBatchSize which is lazily resolved on first Optimize and cached.
type config struct {
	minimumSegmentSize  int
	maxBatchSize        int
	isDynamicOp         bool
	cachedEngineBatches []int
	maxCachedEngines    int
	maxWorkspaceBytes   int64
	precisionMode       converter.PrecisionMode

	printInputGraph        bool
	printEngines           bool
	printSubgraphs         bool
	perEngineWorkspaceSize bool
	printOutputGraph       bool
	saveInputGraph         bool
	saveOutputGraph        bool
	savedInputGraphPrefix  string
	savedOutputGraphPrefix string
}

func defaultConfig() config {
	return config{
		minimumSegmentSize:     3,
		maxBatchSize:           batchSizeUnset,
		maxCachedEngines:       1,
		maxWorkspaceBytes:      256 << 20,
		precisionMode:          converter.PrecisionFP32,
		savedInputGraphPrefix:  "AccelOptimizerInput",
		savedOutputGraphPrefix: "AccelOptimizerOutput",
	}
}

// resolve populates the configuration from the opaque parameter map. Every
// key is optional; absent keys leave defaults untouched. Numeric values are
// not range-checked here, that is the converter's call.
func (c *config) resolve(params optimizer.Params) error {
	if params == nil {
		return nil
	}
	if v, ok := params.Int(keyMinimumSegmentSize); ok {
		c.minimumSegmentSize = v
	}
	if v, ok := params.Int(keyMaxBatchSize); ok {
		c.maxBatchSize = v
	}
	if v, ok := params.Bool(keyIsDynamicOp); ok {
		c.isDynamicOp = v
	}
	if v, ok := params.IntList(keyCachedEngineBatches); ok {
		c.cachedEngineBatches = v
	}
	if v, ok := params.Int(keyMaximumCachedEngines); ok {
		c.maxCachedEngines = v
	}
	if v, ok := params.Int64(keyMaxWorkspaceSizeBytes); ok {
		c.maxWorkspaceBytes = v
	}
	if v, ok := params.Str(keyPrecisionMode); ok {
		mode, err := converter.ParsePrecisionMode(v)
		if err != nil {
			return &ConfigError{Key: keyPrecisionMode, Value: v, Err: err}
		}
		c.precisionMode = mode
	}
	if v, ok := params.Bool(keyPrintInputGraph); ok {
		c.printInputGraph = v
	}
	if v, ok := params.Bool(keyPrintEngines); ok {
		c.printEngines = v
	}
	if v, ok := params.Bool(keyPrintSubgraphs); ok {
		c.printSubgraphs = v
		if v {
			c.printEngines = true
		}
	}
	if v, ok := params.Bool(keyPerEngineWorkspace); ok {
		c.perEngineWorkspaceSize = v
	}
	if v, ok := params.Bool(keyPrintOutputGraph); ok {
		c.printOutputGraph = v
	}
	if v, ok := params.Bool(keySaveInputGraph); ok {
		c.saveInputGraph = v
	}
	if v, ok := params.Bool(keySaveOutputGraph); ok {
		c.saveOutputGraph = v
	}
	if v, ok := params.Str(keySavedInputPrefix); ok {
		c.savedInputGraphPrefix = v
	}
	if v, ok := params.Str(keySavedOutputPrefix); ok {
		c.savedOutputGraphPrefix = v
	}
	return nil
}
