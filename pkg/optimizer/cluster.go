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
	"sort"
)

// DeviceProperties describes one device of the cluster. Consumed only for
// diagnostics.
type DeviceProperties struct {
	Type              string
	Vendor            string
	Model             string
	FrequencyMHz      int64
	NumCores          int64
	NumRegisters      int64
	L1CacheBytes      int64
	L2CacheBytes      int64
	L3CacheBytes      int64
	SharedMemoryPerMP int64
	MemoryBytes       int64
	BandwidthKBs      int64
	Environment       map[string]string
}

// Cluster is a read-only descriptor of the devices the optimized graph will
// run on.
type Cluster struct {
	Type           string
	NumWarmupSteps int

	devices    map[string]DeviceProperties
	peakMemory map[string]uint64
}

// NewCluster builds a cluster descriptor from per-device properties and an
// optional peak-memory snapshot.
func NewCluster(typ string, devices map[string]DeviceProperties, peakMemory map[string]uint64) *Cluster {
	return &Cluster{
		Type:       typ,
		devices:    devices,
		peakMemory: peakMemory,
	}
}

// DeviceNames returns the device names in deterministic order.
func (c *Cluster) DeviceNames() []string {
	names := make([]string, 0, len(c.devices))
	for name := range c.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Devices returns the per-device property map.
func (c *Cluster) Devices() map[string]DeviceProperties {
	return c.devices
}

// PeakMemoryUsage returns per-device peak memory in bytes, or an error when
// the snapshot is unavailable.
func (c *Cluster) PeakMemoryUsage() (map[string]uint64, error) {
	if c.peakMemory == nil {
		return nil, fmt.Errorf("peak memory usage not available for cluster type %q", c.Type)
	}
	return c.peakMemory, nil
}
