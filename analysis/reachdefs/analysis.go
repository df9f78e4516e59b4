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

package reachdefs

import (
	"github.com/mshockwave/dg/analysis/config"
	"github.com/mshockwave/dg/analysis/depgraph"
	"github.com/mshockwave/dg/analysis/memory"
	"github.com/mshockwave/dg/internal/funcutil"
	"github.com/mshockwave/dg/internal/graphutil"
)

// Analysis is the reaching-definitions pass over a dependence graph. It owns
// one Map per node (the dataflow fact after the node), the per-node
// definition and use sets, and the fixpoint loop that joins predecessor
// facts into successor facts until nothing changes.
type Analysis struct {
	graph *depgraph.Graph
	log   *config.LogGroup
	opts  MergeOptions

	// defs are the definitions a node makes that must be weak updates.
	defs map[*depgraph.Node][]DefSite

	// overwrites are the definitions a node unconditionally makes; they are
	// the node's strong-update candidates and double as the noUpdate set
	// when predecessor facts are merged in. Kept sorted by target.
	overwrites map[*depgraph.Node][]DefSite

	// uses are the byte ranges a node reads, for downstream def-use queries.
	uses map[*depgraph.Node][]DefSite

	// maps holds the reaching-definitions fact of each node. Each map is
	// exclusively owned by its node.
	maps map[*depgraph.Node]*Map
}

// NewAnalysis returns a reaching-definitions pass for the graph, configured
// by cfg.
func NewAnalysis(g *depgraph.Graph, cfg *config.Config) *Analysis {
	return &Analysis{
		graph: g,
		log:   config.NewLogGroup(cfg),
		opts: MergeOptions{
			StrongUpdateUnknown: cfg.StrongUpdateUnknown,
			MergeUnknown:        cfg.MergeUnknown,
			MaxSetSize:          cfg.MaxSetSize,
		},
		defs:       make(map[*depgraph.Node][]DefSite),
		overwrites: make(map[*depgraph.Node][]DefSite),
		uses:       make(map[*depgraph.Node][]DefSite),
		maps:       make(map[*depgraph.Node]*Map),
	}
}

// AddDef records that node n defines ds. A definition is a strong-update
// candidate only when strong is requested and the write is provably exact:
// dynamic-allocation summaries and writes of unknown offset or length are
// demoted to weak updates.
func (a *Analysis) AddDef(n *depgraph.Node, ds DefSite, strong bool) {
	if strong && ds.Target.Kind() != memory.DynAllocRegion &&
		!ds.Offset.IsUnknown() && !ds.Len.IsUnknown() {
		a.overwrites[n] = append(a.overwrites[n], ds)
		SortDefSites(a.overwrites[n])
		return
	}
	a.defs[n] = append(a.defs[n], ds)
}

// AddUse records that node n reads ds. Duplicate uses are ignored.
func (a *Analysis) AddUse(n *depgraph.Node, ds DefSite) {
	if funcutil.Contains(a.uses[n], ds) {
		return
	}
	a.uses[n] = append(a.uses[n], ds)
}

// Uses returns the byte ranges node n reads.
func (a *Analysis) Uses(n *depgraph.Node) []DefSite {
	return a.uses[n]
}

// MapAt returns the reaching-definitions fact of node n, creating an empty
// one on first use.
func (a *Analysis) MapAt(n *depgraph.Node) *Map {
	if m, ok := a.maps[n]; ok {
		return m
	}
	m := NewMap()
	a.maps[n] = m
	return m
}

// ProcessNode applies n's transfer function: it merges every predecessor
// fact into n's fact, suppressing definitions n itself overwrites, then
// records n's own definitions. It reports whether n's fact changed.
func (a *Analysis) ProcessNode(n *depgraph.Node) bool {
	m := a.MapAt(n)
	changed := false

	var noUpdate []DefSite
	if len(a.overwrites[n]) > 0 {
		noUpdate = a.overwrites[n]
	}
	for _, pred := range n.Predecessors() {
		if m.Merge(a.MapAt(pred), noUpdate, a.opts) {
			changed = true
		}
	}

	for _, ds := range a.defs[n] {
		if m.Add(ds, n.ID()) {
			changed = true
		}
	}
	for _, ds := range a.overwrites[n] {
		if m.Update(ds, n.ID()) {
			changed = true
		}
	}
	return changed
}

// Run computes the fixpoint and returns the number of passes it took.
func (a *Analysis) Run() int {
	order := graphutil.FixpointOrder(a.graph)
	passes := depgraph.RunForward(order, a.ProcessNode)
	a.log.Infof("reaching definitions stabilized after %d pass(es) over %d nodes", passes, len(order))
	if collapsed := a.collapsedSets(); collapsed > 0 {
		a.log.Debugf("%d definition set(s) collapsed to unknown (max-set-size %d)",
			collapsed, a.opts.MaxSetSize)
	}
	return passes
}

// ReachingDefinitions collects into out the ids of the nodes that may have
// last written ds at node n, and returns the size of out.
func (a *Analysis) ReachingDefinitions(n *depgraph.Node, ds DefSite, out *NodeSet) int {
	return a.MapAt(n).GetSite(ds, out)
}

// collapsedSets counts the node sets that lost their explicit members.
func (a *Analysis) collapsedSets() int {
	count := 0
	for _, m := range a.maps {
		for i := 0; i < m.Len(); i++ {
			if _, nodes := m.At(i); nodes.IsUnknown() {
				count++
			}
		}
	}
	return count
}
