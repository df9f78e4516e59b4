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

// Package graphutil adapts the dependence graph to existing graph libraries:
// it implements the iterator interface of yourbasic/graph and Gonum's
// graph.Graph, and builds the fixpoint iteration order on top of them.
package graphutil

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"

	"github.com/mshockwave/dg/analysis/depgraph"
)

// DGraph is an abstraction over a dependence graph to work with existing
// graph libraries. It implements the methods to satisfy graph.Iterator and
// Gonum's graph.Graph.
type DGraph struct {
	// The order of the graph
	order int

	// The original dependence graph the DGraph was constructed from
	Graph *depgraph.Graph

	// IDMap maps from node IDs to DNodes
	IDMap map[int64]DNode

	// Keys are all the node IDs
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed
	// edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]bool
}

// NewDepGraphIterator returns a new graph iterator where node ids correspond
// to the Node.ID of each dependence-graph node.
func NewDepGraphIterator(dg *depgraph.Graph) DGraph {
	n := dg.Len()
	idmap := make(map[int64]DNode, n)
	edges := make(map[int64]map[int64]bool, n)
	keys := make([]int64, 0, n)

	for _, node := range dg.Nodes() {
		id := int64(node.ID())
		keys = append(keys, id)
		idmap[id] = DNode{node}
		edges[id] = map[int64]bool{}
		for _, succ := range node.Successors() {
			edges[id][int64(succ.ID())] = true
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return DGraph{
		order: n,
		Graph: dg,
		IDMap: idmap,
		Edges: edges,
		Keys:  keys,
	}
}

// Subgraph returns a new graph that is the original graph with only the
// nodes in include. Only the edges that have both the origin and destination
// nodes in the include nodes are kept in the resulting graph.
// The subgraph's order, Graph and IDMap are the same as in the original,
// meaning that node indices stay consistent across subgraphs.
func Subgraph(original DGraph, include []int64) DGraph {
	idmap := make(map[int64]DNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return DGraph{
		order: original.Order(),
		Graph: original.Graph,
		IDMap: original.IDMap,
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the DGraph
func (c DGraph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the DGraph
func (c DGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (c DGraph) Node(id int64) graph.Node {
	if n, ok := c.IDMap[id]; ok {
		return n
	}
	return nil
}

// Nodes returns the set of nodes in the graph
func (c DGraph) Nodes() graph.Nodes {
	keys := make([]int64, len(c.IDMap))

	i := 0
	for k := range c.IDMap {
		keys[i] = k
		i++
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   -1,
	}
}

// From returns the set of nodes reachable from the id
func (c DGraph) From(id int64) graph.Nodes {
	var keys []int64

	for out := range c.Edges[id] {
		keys = append(keys, out)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   -1,
	}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between
// the two node identifiers
func (c DGraph) HasEdgeBetween(xid, yid int64) bool {
	xe := c.Edges[xid]
	ye := c.Edges[yid]
	return xe[yid] || ye[xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c DGraph) Edge(uid, vid int64) graph.Edge {
	ue := c.Edges[uid]
	if ue != nil {
		if ue[vid] {
			return DEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
		}
	}
	return nil
}

// *************** Nodes implementation **********************

// DNode is a wrapper around a *depgraph.Node that implements the graph.Node
// interface and the DOT encoding hooks.
type DNode struct {
	Node *depgraph.Node
}

// ID returns the id of the node
func (n DNode) ID() int64 {
	return int64(n.Node.ID())
}

// DOTID returns the DOT identifier of the node.
func (n DNode) DOTID() string {
	return fmt.Sprintf("n%d", n.Node.ID())
}

// Attributes returns the DOT attributes of the node.
func (n DNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: fmt.Sprintf("%q", n.Node.String())},
		{Key: "shape", Value: "box"},
	}
}

func (n DNode) String() string {
	if n.Node == nil {
		return ""
	}
	return n.Node.String()
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of
// nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]DNode

	// ids is the set of node ids in the iterator
	// invariant: len(ids) = len(nodes)
	ids []int64

	// cur is the current index of the iterator, -1 before the first call to
	// Next. The current node is nodes[ids[cur]]
	cur int
}

// Next moves the current node to the next, and returns true if such a node
// exists. Otherwise, returns false and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the length of the node set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the iterator to before the first node in the set
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// DEdge implements the graph.Edge interface
type DEdge struct {
	from DNode
	to   DNode
}

// From returns the origin of the edge
func (e DEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e DEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e DEdge) ReversedEdge() graph.Edge {
	return DEdge{from: e.to, to: e.from}
}
