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

package depgraph

// A Transfer applies one node's transfer function to the tracked dataflow
// state and reports whether the state changed. Every state mutation must be
// reported: the returned flag is the only convergence signal the driver has.
type Transfer func(*Node) bool

// RunForward runs the monotone forward fixpoint: it applies transfer to each
// node in the given order, repeating full passes until a pass reports no
// change, and returns the number of passes. The iteration order only affects
// how fast the fixpoint is reached, not which fixpoint it is.
//
// Termination relies on the state lattice being bounded and transfer being
// monotone; both hold for the reaching-definitions and points-to states.
func RunForward(order []*Node, transfer Transfer) int {
	passes := 0
	for {
		passes++
		changed := false
		for _, n := range order {
			if transfer(n) {
				changed = true
			}
		}
		if !changed {
			return passes
		}
	}
}
