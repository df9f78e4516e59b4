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

// rd-cli runs the reaching-definitions analysis on a yaml dependence-graph
// description and prints which nodes may have last written each byte range a
// node reads. It is a debugging harness for the analysis, not a frontend for
// real programs.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mshockwave/dg/analysis"
	"github.com/mshockwave/dg/analysis/config"
	"github.com/mshockwave/dg/analysis/depgraph"
	"github.com/mshockwave/dg/analysis/reachdefs"
	"github.com/mshockwave/dg/internal/formatutil"
	"github.com/mshockwave/dg/internal/funcutil"
	"github.com/mshockwave/dg/internal/graphutil"
)

var (
	graphPath  = flag.String("graph", "", "Path of the yaml graph description to analyze")
	configPath = flag.String("config", "", "Config file path for the analysis")
	dotPath    = flag.String("dot", "", "Write the dependence graph in DOT format to this file")
	showCycles = flag.Bool("cycles", false, "Report the elementary control-flow cycles of the graph")
	verbose    = flag.Bool("verbose", false, "Verbose printing on standard output")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", formatutil.Red("error:"), err)
		os.Exit(1)
	}
}

func run() error {
	if *graphPath == "" {
		flag.Usage()
		return fmt.Errorf("missing -graph argument")
	}

	cfg := config.NewDefault()
	if *configPath != "" {
		config.SetGlobalConfig(*configPath)
		loaded, err := config.LoadGlobal()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}

	g, a, err := analysis.RunReachingDefinitions(cfg, *graphPath)
	if err != nil {
		return err
	}

	reportReachingDefs(g, a)

	if *showCycles {
		reportCycles(g)
	}

	if *dotPath != "" {
		f, err := os.Create(*dotPath)
		if err != nil {
			return fmt.Errorf("could not create dot file: %w", err)
		}
		defer f.Close()
		if err := graphutil.WriteDot(f, g, "depgraph"); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", formatutil.Cyan(*dotPath))
	}

	return nil
}

// reportReachingDefs prints, for every byte range a node reads, the nodes
// that may have last written it.
func reportReachingDefs(g *depgraph.Graph, a *reachdefs.Analysis) {
	for _, n := range g.Nodes() {
		uses := a.Uses(n)
		if len(uses) == 0 {
			continue
		}
		fmt.Printf("%s\n", formatutil.Bold(formatutil.Sanitize(n.String())))
		for _, ds := range uses {
			out := reachdefs.NewNodeSet()
			a.ReachingDefinitions(n, ds, out)
			fmt.Printf("  %s <- %s\n", formatutil.Sanitize(ds.String()), writerNames(g, out))
		}
	}
}

// writerNames renders the members of a reaching-definitions query result.
func writerNames(g *depgraph.Graph, set *reachdefs.NodeSet) string {
	if set.IsUnknown() {
		return formatutil.Yellow("any writer")
	}
	if set.Size() == 0 {
		return formatutil.Faint("none")
	}
	names := funcutil.Map(set.AppendTo(nil), func(id int) string {
		return formatutil.Sanitize(g.Node(id).String())
	})
	return strings.Join(names, ", ")
}

// reportCycles prints the elementary control-flow cycles; these are the
// regions that force the fixpoint to iterate.
func reportCycles(g *depgraph.Graph) {
	it := graphutil.NewDepGraphIterator(g)
	cycles := graphutil.FindAllElementaryCycles(it)
	if len(cycles) == 0 {
		fmt.Println("no control-flow cycles")
		return
	}
	fmt.Printf("%s\n", formatutil.Bold(fmt.Sprintf("%d control-flow cycle(s):", len(cycles))))
	for _, cycle := range cycles {
		names := funcutil.Map(cycle, func(id int64) string {
			return formatutil.Sanitize(g.Node(int(id)).String())
		})
		fmt.Printf("  %s\n", strings.Join(names, " -> "))
	}
}
