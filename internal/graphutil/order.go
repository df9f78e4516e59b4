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

package graphutil

import (
	"sort"

	"github.com/yourbasic/graph"

	"github.com/mshockwave/dg/analysis/depgraph"
)

// FixpointOrder returns the nodes of the dependence graph in an order suited
// for the forward fixpoint: the strongly connected components of the
// control-flow relation in topological order, node id order within a
// component. Predecessor state then tends to be final before a node is
// visited, which keeps the number of passes low. The order has no effect on
// the fixpoint itself.
func FixpointOrder(dg *depgraph.Graph) []*depgraph.Node {
	it := NewDepGraphIterator(dg)

	// StrongComponents returns the components in reverse topological order.
	components := graph.StrongComponents(it)

	order := make([]*depgraph.Node, 0, dg.Len())
	for i := len(components) - 1; i >= 0; i-- {
		component := components[i]
		sort.Ints(component)
		for _, id := range component {
			order = append(order, it.IDMap[int64(id)].Node)
		}
	}
	return order
}
