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
	"fmt"
	"io"

	"gonum.org/v1/gonum/graph/encoding/dot"

	"github.com/mshockwave/dg/analysis/depgraph"
)

// WriteDot writes the dependence graph in Graphviz DOT format.
func WriteDot(w io.Writer, dg *depgraph.Graph, name string) error {
	it := NewDepGraphIterator(dg)
	b, err := dot.Marshal(it, name, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling graph to dot: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing dot output: %w", err)
	}
	return nil
}
