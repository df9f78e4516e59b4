// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pointsto

import (
	"github.com/mshockwave/dg/analysis/config"
	"github.com/mshockwave/dg/analysis/depgraph"
	"github.com/mshockwave/dg/internal/funcutil"
	"github.com/mshockwave/dg/internal/graphutil"
)

// A Transfer computes how one node updates the points-to state and reports
// whether the state changed. The load/store/alias rules live with the graph
// builder, not in this package.
type Transfer func(a *Analysis, n *depgraph.Node) bool

// Analysis is the points-to pass shell: the per-allocation-site memory
// objects and the fixpoint loop that applies a caller-supplied transfer
// function per node until the state stabilizes.
type Analysis struct {
	graph *depgraph.Graph
	log   *config.LogGroup

	// Objects maps allocation nodes to their abstract memory object.
	objects map[*depgraph.Node]*MemoryObj

	transfer Transfer
}

// NewAnalysis returns a points-to pass over the graph using the given
// transfer function.
func NewAnalysis(g *depgraph.Graph, cfg *config.Config, transfer Transfer) *Analysis {
	return &Analysis{
		graph:    g,
		log:      config.NewLogGroup(cfg),
		objects:  make(map[*depgraph.Node]*MemoryObj),
		transfer: transfer,
	}
}

// ObjectOf returns the memory object of the allocation node n, creating it
// on first use.
func (a *Analysis) ObjectOf(n *depgraph.Node) *MemoryObj {
	if obj, ok := a.objects[n]; ok {
		return obj
	}
	obj := NewMemoryObj(n)
	a.objects[n] = obj
	return obj
}

// Run computes the fixpoint of the transfer function over the graph and
// returns the number of passes. Without a transfer function there is nothing
// to compute and Run returns 0.
func (a *Analysis) Run() int {
	if a.transfer == nil {
		return 0
	}
	order := graphutil.FixpointOrder(a.graph)
	passes := depgraph.RunForward(order, func(n *depgraph.Node) bool {
		return a.transfer(a, n)
	})
	a.log.Infof("points-to state stabilized after %d pass(es) over %d nodes", passes, len(order))
	return passes
}

// UnionPointsTo adds every pointer of src to dst and returns dst. Transfer
// functions use it to propagate pointer sets between objects.
func UnionPointsTo(dst, src PointsToSet) PointsToSet {
	return funcutil.Union(dst, src)
}
