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

// Package analysis assembles the analyses from their inputs: it loads
// dependence-graph descriptions and wires them to the reaching-definitions
// pass. Graph descriptions are a yaml test and debugging format, not a
// frontend for real programs.
package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mshockwave/dg/analysis/config"
	"github.com/mshockwave/dg/analysis/depgraph"
	"github.com/mshockwave/dg/analysis/memory"
	"github.com/mshockwave/dg/analysis/reachdefs"
	"github.com/mshockwave/dg/internal/funcutil"
)

// A GraphDescription is the yaml form of a dependence graph: named nodes
// with their memory effects, control-flow edges between them, and optional
// global variables.
type GraphDescription struct {
	// Entry names the entry node; the first node is the entry if empty.
	Entry string `yaml:"entry"`

	// Globals declares global variables usable as def/use targets.
	Globals []GlobalDescription `yaml:"globals"`

	// Nodes lists the instruction-like nodes.
	Nodes []NodeDescription `yaml:"nodes"`

	// Edges lists control-flow edges as [from, to] name pairs.
	Edges [][]string `yaml:"edges"`
}

// A GlobalDescription declares one global variable.
type GlobalDescription struct {
	Name string `yaml:"name"`
	Size uint64 `yaml:"size"`
}

// A NodeDescription declares one node. Allocation nodes (kind "alloc" or
// "dyn-alloc") create a memory region named after the node, usable as the
// target of defs and uses.
type NodeDescription struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// Size is the byte size of the region created by an allocation node,
	// 0 when unknown.
	Size uint64 `yaml:"size"`

	// Defs are the byte ranges the node writes.
	Defs []SiteDescription `yaml:"defs"`

	// Uses are the byte ranges the node reads.
	Uses []SiteDescription `yaml:"uses"`
}

// A SiteDescription declares one byte range of a target region. A missing
// offset or length means unknown. The special target "unknown" is the
// unknown-memory region.
type SiteDescription struct {
	Target string  `yaml:"target"`
	Offset *uint64 `yaml:"offset"`
	Len    *uint64 `yaml:"len"`

	// Strong marks a write the node makes unconditionally, making it a
	// strong-update candidate.
	Strong bool `yaml:"strong"`
}

// ParseGraphDescription parses a yaml graph description.
func ParseGraphDescription(b []byte) (*GraphDescription, error) {
	desc := &GraphDescription{}
	if err := yaml.Unmarshal(b, desc); err != nil {
		return nil, fmt.Errorf("could not parse graph description: %w", err)
	}
	return desc, nil
}

// LoadGraphDescription reads a yaml graph description from a file.
func LoadGraphDescription(filename string) (*GraphDescription, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read graph description %q: %w", filename, err)
	}
	desc, err := ParseGraphDescription(b)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", filename, err)
	}
	return desc, nil
}

// offsetOf converts an optional concrete value into an offset.
func offsetOf(v *uint64) memory.Offset {
	if v == nil {
		return memory.UnknownOffset()
	}
	return memory.NewOffset(*v)
}

// BuildReachingDefs turns a graph description into a dependence graph and a
// configured reaching-definitions pass over it.
func BuildReachingDefs(cfg *config.Config, desc *GraphDescription) (*depgraph.Graph, *reachdefs.Analysis, error) {
	g := depgraph.NewGraph()

	regions := map[string]*memory.Region{"unknown": memory.UnknownMem}
	for _, glob := range desc.Globals {
		if _, dup := regions[glob.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate global %q", glob.Name)
		}
		regions[glob.Name] = memory.NewRegion(memory.GlobalRegion, glob.Size, glob.Name)
	}

	nodes := map[string]*depgraph.Node{}
	for _, nd := range desc.Nodes {
		if nd.Name == "" {
			return nil, nil, fmt.Errorf("node without a name")
		}
		if _, dup := nodes[nd.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate node %q", nd.Name)
		}
		kind, err := depgraph.KindFromString(nd.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("node %q: %w", nd.Name, err)
		}
		n := g.AddNode(kind, nd.Name)
		nodes[nd.Name] = n

		switch kind {
		case depgraph.NodeAlloc:
			n.Region = memory.NewRegion(memory.StackRegion, nd.Size, nd.Name)
		case depgraph.NodeDynAlloc:
			n.Region = memory.NewRegion(memory.DynAllocRegion, nd.Size, nd.Name)
		}
		if n.Region != nil {
			if _, dup := regions[nd.Name]; dup {
				return nil, nil, fmt.Errorf("node %q shadows a global", nd.Name)
			}
			regions[nd.Name] = n.Region
		}
	}

	a := reachdefs.NewAnalysis(g, cfg)
	site := func(owner string, sd SiteDescription) (reachdefs.DefSite, error) {
		target, ok := regions[sd.Target]
		if !ok {
			return reachdefs.DefSite{}, fmt.Errorf("node %q: unknown target %q", owner, sd.Target)
		}
		return reachdefs.NewDefSite(target, offsetOf(sd.Offset), offsetOf(sd.Len)), nil
	}
	for _, nd := range desc.Nodes {
		n := nodes[nd.Name]
		for _, sd := range nd.Defs {
			ds, err := site(nd.Name, sd)
			if err != nil {
				return nil, nil, err
			}
			a.AddDef(n, ds, sd.Strong)
		}
		for _, sd := range nd.Uses {
			ds, err := site(nd.Name, sd)
			if err != nil {
				return nil, nil, err
			}
			a.AddUse(n, ds)
		}
	}

	for _, e := range desc.Edges {
		if len(e) != 2 {
			return nil, nil, fmt.Errorf("edge %v: want [from, to]", e)
		}
		from, ok := nodes[e[0]]
		if !ok {
			return nil, nil, fmt.Errorf("edge %v: unknown node %q", e, e[0])
		}
		to, ok := nodes[e[1]]
		if !ok {
			return nil, nil, fmt.Errorf("edge %v: unknown node %q", e, e[1])
		}
		g.AddEdge(from, to)
	}

	if desc.Entry != "" {
		entry := funcutil.FindMap(g.Nodes(),
			func(n *depgraph.Node) *depgraph.Node { return n },
			func(n *depgraph.Node) bool { return n.Name() == desc.Entry })
		if entry.IsNone() {
			return nil, nil, fmt.Errorf("entry node %q not declared", desc.Entry)
		}
		g.SetEntry(entry.Value())
	}

	return g, a, nil
}

// RunReachingDefinitions loads the graph description at filename, builds the
// reaching-definitions pass with cfg and runs it to its fixpoint. It returns
// the graph and the completed pass.
func RunReachingDefinitions(cfg *config.Config, filename string) (*depgraph.Graph, *reachdefs.Analysis, error) {
	desc, err := LoadGraphDescription(filename)
	if err != nil {
		return nil, nil, err
	}
	g, a, err := BuildReachingDefs(cfg, desc)
	if err != nil {
		return nil, nil, fmt.Errorf("%q: %w", filename, err)
	}
	a.Run()
	return g, a, nil
}
