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
	"github.com/sirupsen/logrus"

	"github.com/secretflow/accelpass/pkg/optimizer"
)

// printDebugInfo dumps the cluster descriptor and optimize item at debug
// level before conversion.
func printDebugInfo(cluster *optimizer.Cluster, item *optimizer.Item) {
	if cluster != nil {
		logrus.Debugf("  cluster type = %s", cluster.Type)
		logrus.Debugf("  num warmup steps = %d", cluster.NumWarmupSteps)
		for _, name := range cluster.DeviceNames() {
			logrus.Debugf("    device %s", name)
		}
		if peak, err := cluster.PeakMemoryUsage(); err == nil {
			logrus.Debug("  peak memory usage:")
			for dev, bytes := range peak {
				logrus.Debugf("    %s = %d", dev, bytes)
			}
		}
		for name, props := range cluster.Devices() {
			logrus.Debugf("  device properties for %s:", name)
			logrus.Debugf("    type          = %s", props.Type)
			logrus.Debugf("    vendor        = %s", props.Vendor)
			logrus.Debugf("    model         = %s", props.Model)
			logrus.Debugf("    frequency     = %d", props.FrequencyMHz)
			logrus.Debugf("    num cores     = %d", props.NumCores)
			logrus.Debugf("    num registers = %d", props.NumRegisters)
			logrus.Debugf("    L1 cache size = %d", props.L1CacheBytes)
			logrus.Debugf("    L2 cache size = %d", props.L2CacheBytes)
			logrus.Debugf("    L3 cache size = %d", props.L3CacheBytes)
			logrus.Debugf("    shmem per MP  = %d", props.SharedMemoryPerMP)
			logrus.Debugf("    memory size   = %d", props.MemoryBytes)
			logrus.Debugf("    bandwidth     = %d", props.BandwidthKBs)
			for k, v := range props.Environment {
				logrus.Debugf("    env %s = %s", k, v)
			}
		}
	}
	logrus.Debugf("  item id = %s", item.ID)
	if len(item.Feed) > 0 {
		logrus.Debug("  feeds:")
		for i := range item.Feed {
			logrus.Debugf("    %s shaped %s", item.Feed[i].Name, item.Feed[i].Shape.String())
		}
	} else {
		logrus.Debug("  no feeds")
	}
	if len(item.Fetch) > 0 {
		logrus.Debug("  fetches:")
		for _, f := range item.Fetch {
			logrus.Debugf("    %s", f)
		}
	} else {
		logrus.Debug("  no fetches")
	}
	if len(item.InitOps) > 0 {
		logrus.Debug("  init ops:")
		for _, op := range item.InitOps {
			logrus.Debugf("    %s", op)
		}
	} else {
		logrus.Debug("  no init ops")
	}
	if len(item.KeepOps) > 0 {
		logrus.Debug("  keep ops:")
		for _, op := range item.KeepOps {
			logrus.Debugf("    %s", op)
		}
	} else {
		logrus.Debug("  no keep ops")
	}
	logrus.Debugf("  save op = %s", item.SaveOp)
	logrus.Debugf("  restore op = %s", item.RestoreOp)
}
