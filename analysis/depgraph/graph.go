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

// Package depgraph defines the dependence-graph representation the analyses
// run on: instruction-like nodes connected by control-flow edges, and the
// generic forward fixpoint driver that applies a transfer function until the
// tracked state stabilizes.
package depgraph

import (
	"fmt"

	"github.com/mshockwave/dg/analysis/memory"
	"github.com/mshockwave/dg/internal/funcutil"
)

// NodeKind classifies an instruction-like node.
type NodeKind int

const (
	// NodeNoop is a node with no memory effect (entry points, joins, ...).
	NodeNoop NodeKind = iota

	// NodeAlloc is a stack allocation site.
	NodeAlloc

	// NodeDynAlloc is a dynamic allocation site; the region it creates is a
	// summary for every object allocated there.
	NodeDynAlloc

	// NodeStore writes memory.
	NodeStore

	// NodeLoad reads memory.
	NodeLoad

	// NodeCall is a call site.
	NodeCall

	// NodeReturn is a function return.
	NodeReturn

	// NodePhi merges values at a control-flow join.
	NodePhi
)

var nodeKindNames = map[NodeKind]string{
	NodeNoop:     "noop",
	NodeAlloc:    "alloc",
	NodeDynAlloc: "dyn-alloc",
	NodeStore:    "store",
	NodeLoad:     "load",
	NodeCall:     "call",
	NodeReturn:   "return",
	NodePhi:      "phi",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// KindFromString parses a node kind name as used in graph descriptions.
func KindFromString(s string) (NodeKind, error) {
	for _, k := range funcutil.SortedKeys(nodeKindNames) {
		if nodeKindNames[k] == s {
			return k, nil
		}
	}
	return NodeNoop, fmt.Errorf("unknown node kind %q", s)
}

// A Node is one instruction-like element of the dependence graph. Node ids
// are dense, start at 0, and identify defining instructions in the
// reaching-definitions node sets.
type Node struct {
	id   int
	kind NodeKind
	name string

	succs []*Node
	preds []*Node

	// Region is the memory region created by an allocation node, nil for
	// other kinds.
	Region *memory.Region
}

// ID returns the node id within its graph.
func (n *Node) ID() int { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Name returns the diagnostic name of the node.
func (n *Node) Name() string { return n.name }

// Successors returns the control-flow successors of the node. The returned
// slice is owned by the graph.
func (n *Node) Successors() []*Node { return n.succs }

// Predecessors returns the control-flow predecessors of the node. The
// returned slice is owned by the graph.
func (n *Node) Predecessors() []*Node { return n.preds }

func (n *Node) String() string {
	if n.name != "" {
		return fmt.Sprintf("%s#%d(%s)", n.name, n.id, n.kind)
	}
	return fmt.Sprintf("#%d(%s)", n.id, n.kind)
}

// A Graph is a dependence graph: the set of nodes and their control-flow
// edges. Graph construction is single-threaded; once built, the graph is not
// mutated by the analyses.
type Graph struct {
	nodes []*Node
	entry *Node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode creates a node of the given kind and returns it. The first node
// added becomes the entry node unless SetEntry is called.
func (g *Graph) AddNode(kind NodeKind, name string) *Node {
	n := &Node{id: len(g.nodes), kind: kind, name: name}
	g.nodes = append(g.nodes, n)
	if g.entry == nil {
		g.entry = n
	}
	return n
}

// AddEdge adds a control-flow edge from one node to another.
func (g *Graph) AddEdge(from, to *Node) {
	from.succs = append(from.succs, to)
	to.preds = append(to.preds, from)
}

// SetEntry sets the entry node of the graph.
func (g *Graph) SetEntry(n *Node) {
	g.entry = n
}

// Entry returns the entry node, nil for an empty graph.
func (g *Graph) Entry() *Node {
	return g.entry
}

// Nodes returns all nodes in id order. The returned slice is owned by the
// graph.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Node returns the node with the given id, nil if out of range.
func (g *Graph) Node(id int) *Node {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}
