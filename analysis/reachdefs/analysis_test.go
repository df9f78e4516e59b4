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
	"testing"

	"github.com/mshockwave/dg/analysis/config"
	"github.com/mshockwave/dg/analysis/depgraph"
	"github.com/mshockwave/dg/analysis/memory"
)

func quietConfig() *config.Config {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return cfg
}

func wantWriters(t *testing.T, a *Analysis, at *depgraph.Node, ds DefSite, want []*depgraph.Node) {
	t.Helper()
	out := NewNodeSet()
	n := a.ReachingDefinitions(at, ds, out)
	if n != len(want) {
		t.Errorf("ReachingDefinitions at %s = %d writers, want %d", at, n, len(want))
	}
	for _, w := range want {
		if !out.Has(w.ID()) {
			t.Errorf("writer %s missing at %s", w, at)
		}
	}
}

// TestAnalysisDiamond checks strong updates along branching control flow:
//
//	        s1: A[0,4] = ...
//	       /                \
//	s2: A[0,16] = ...   s3: A[8,8] = ...
//	       \                /
//	         load A[2,2]
//
// On the left path s2 overwrites all of A, so s1 does not reach the load
// through it; on the right path s3 misses the loaded bytes and s1 survives.
func TestAnalysisDiamond(t *testing.T) {
	g := depgraph.NewGraph()
	entry := g.AddNode(depgraph.NodeNoop, "entry")
	alloc := g.AddNode(depgraph.NodeAlloc, "A")
	s1 := g.AddNode(depgraph.NodeStore, "s1")
	s2 := g.AddNode(depgraph.NodeStore, "s2")
	s3 := g.AddNode(depgraph.NodeStore, "s3")
	join := g.AddNode(depgraph.NodePhi, "join")
	load := g.AddNode(depgraph.NodeLoad, "load")

	g.AddEdge(entry, alloc)
	g.AddEdge(alloc, s1)
	g.AddEdge(s1, s2)
	g.AddEdge(s1, s3)
	g.AddEdge(s2, join)
	g.AddEdge(s3, join)
	g.AddEdge(join, load)

	regionA := memory.NewRegion(memory.StackRegion, 16, "A")
	alloc.Region = regionA

	a := NewAnalysis(g, quietConfig())
	a.AddDef(s1, site(regionA, 0, 4), true)
	a.AddDef(s2, site(regionA, 0, 16), true)
	a.AddDef(s3, site(regionA, 8, 8), true)
	a.AddUse(load, site(regionA, 2, 2))

	if passes := a.Run(); passes < 1 {
		t.Fatalf("Run() = %d passes", passes)
	}

	wantWriters(t, a, load, site(regionA, 2, 2), []*depgraph.Node{s1, s2})

	// the bytes s3 wrote are reached only by s2 and s3
	wantWriters(t, a, load, site(regionA, 10, 2), []*depgraph.Node{s2, s3})

	// right after s2 the whole object has a single writer
	wantWriters(t, a, s2, site(regionA, 0, 16), []*depgraph.Node{s2})
}

// TestAnalysisLoop checks that the fixpoint terminates on cyclic control flow
// and that definitions from both the loop entry and the loop body reach the
// exit.
func TestAnalysisLoop(t *testing.T) {
	g := depgraph.NewGraph()
	entry := g.AddNode(depgraph.NodeNoop, "entry")
	alloc := g.AddNode(depgraph.NodeAlloc, "A")
	s1 := g.AddNode(depgraph.NodeStore, "s1")
	head := g.AddNode(depgraph.NodePhi, "head")
	s2 := g.AddNode(depgraph.NodeStore, "s2")
	load := g.AddNode(depgraph.NodeLoad, "load")

	g.AddEdge(entry, alloc)
	g.AddEdge(alloc, s1)
	g.AddEdge(s1, head)
	g.AddEdge(head, s2)
	g.AddEdge(s2, head) // back edge
	g.AddEdge(head, load)

	regionA := memory.NewRegion(memory.StackRegion, 8, "A")
	alloc.Region = regionA

	a := NewAnalysis(g, quietConfig())
	a.AddDef(s1, site(regionA, 0, 4), true)
	a.AddDef(s2, site(regionA, 0, 4), true)
	a.AddUse(load, site(regionA, 0, 4))

	a.Run()

	// zero or more iterations: either store may be the last writer
	wantWriters(t, a, load, site(regionA, 0, 4), []*depgraph.Node{s1, s2})

	// inside the body the strong update leaves a single writer
	wantWriters(t, a, s2, site(regionA, 0, 4), []*depgraph.Node{s2})
}

// TestAnalysisWeakDefs checks the demotions AddDef performs: stores to heap
// summaries and stores of unknown extent accumulate writers instead of
// replacing them.
func TestAnalysisWeakDefs(t *testing.T) {
	g := depgraph.NewGraph()
	entry := g.AddNode(depgraph.NodeNoop, "entry")
	malloc := g.AddNode(depgraph.NodeDynAlloc, "m")
	s1 := g.AddNode(depgraph.NodeStore, "s1")
	s2 := g.AddNode(depgraph.NodeStore, "s2")
	load := g.AddNode(depgraph.NodeLoad, "load")

	g.AddEdge(entry, malloc)
	g.AddEdge(malloc, s1)
	g.AddEdge(s1, s2)
	g.AddEdge(s2, load)

	heap := memory.NewRegion(memory.DynAllocRegion, 8, "m")
	malloc.Region = heap

	a := NewAnalysis(g, quietConfig())
	// both stores request strong updates; the heap summary demotes them
	a.AddDef(s1, site(heap, 0, 8), true)
	a.AddDef(s2, site(heap, 0, 8), true)
	a.AddUse(load, site(heap, 0, 8))

	a.Run()

	wantWriters(t, a, load, site(heap, 0, 8), []*depgraph.Node{s1, s2})
}

func TestAnalysisUnknownOffsetStore(t *testing.T) {
	g := depgraph.NewGraph()
	entry := g.AddNode(depgraph.NodeNoop, "entry")
	alloc := g.AddNode(depgraph.NodeAlloc, "A")
	s1 := g.AddNode(depgraph.NodeStore, "s1")
	s2 := g.AddNode(depgraph.NodeStore, "s2")
	load := g.AddNode(depgraph.NodeLoad, "load")

	g.AddEdge(entry, alloc)
	g.AddEdge(alloc, s1)
	g.AddEdge(s1, s2)
	g.AddEdge(s2, load)

	regionA := memory.NewRegion(memory.StackRegion, 16, "A")
	alloc.Region = regionA

	a := NewAnalysis(g, quietConfig())
	a.AddDef(s1, site(regionA, 0, 4), true)
	// a store at an unknown offset cannot kill s1 even when marked strong
	a.AddDef(s2, NewDefSite(regionA, memory.UnknownOffset(), memory.NewOffset(4)), true)
	a.AddUse(load, site(regionA, 0, 4))

	a.Run()

	wantWriters(t, a, load, site(regionA, 0, 4), []*depgraph.Node{s1, s2})
}
