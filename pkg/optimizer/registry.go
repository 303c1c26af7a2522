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

	"github.com/sirupsen/logrus"
)

// Factory creates a fresh, uninitialized optimizer instance.
type Factory func() GraphOptimizer

// Registry maps pass names to factories. Hosts register passes explicitly at
// startup; there is no implicit registration at package load time.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Registering the same name twice is an
// error.
func (r *Registry) Register(name string, factory Factory) error {
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("optimizer %q already registered", name)
	}
	r.factories[name] = factory
	logrus.Debugf("registered graph optimizer %q", name)
	return nil
}

// New instantiates the named optimizer.
func (r *Registry) New(name string) (GraphOptimizer, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
	return factory(), nil
}

// Names returns the registered pass names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
