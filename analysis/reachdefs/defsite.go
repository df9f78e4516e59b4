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

// Package reachdefs implements the reaching-definitions state of the
// dataflow analysis: the per-program-point map from defined byte ranges to
// the sets of instructions that may have written them, together with the
// merge and query operations the fixpoint driver and the def-use builders
// rely on.
package reachdefs

import (
	"fmt"
	"sort"

	"github.com/mshockwave/dg/analysis/memory"
)

// A DefSite identifies the byte range [Offset, Offset+Len) of one memory
// region. It is the key of the reaching-definitions map.
type DefSite struct {
	// Target is the region the range belongs to.
	Target *memory.Region

	// Offset is the start of the range within the target, possibly unknown.
	Offset memory.Offset

	// Len is the length of the range in bytes, possibly unknown.
	Len memory.Offset
}

// NewDefSite returns a def site for [off, off+length) of target.
func NewDefSite(target *memory.Region, off, length memory.Offset) DefSite {
	return DefSite{Target: target, Offset: off, Len: length}
}

func (ds DefSite) String() string {
	return fmt.Sprintf("%s@%s", ds.Target, memory.FormatRange(ds.Offset, ds.Len))
}

// defSiteLess orders def sites by target first, then offset, then length.
// Target-primary ordering is load-bearing: it keeps all entries of one region
// contiguous in a sorted container, so that per-region scans reduce to a
// bracket search.
func defSiteLess(a, b DefSite) bool {
	if a.Target != b.Target {
		return a.Target.Less(b.Target)
	}
	if a.Offset != b.Offset {
		return a.Offset.Less(b.Offset)
	}
	return a.Len.Less(b.Len)
}

// SortDefSites sorts the slice in the target-primary order expected by the
// noUpdate argument of Map.Merge.
func SortDefSites(sites []DefSite) {
	sort.Slice(sites, func(i, j int) bool { return defSiteLess(sites[i], sites[j]) })
}

// targetBracket returns the half-open index range [lo, hi) of the entries in
// the target-primary sorted slice that belong to target.
func targetBracket(sites []DefSite, target *memory.Region) (int, int) {
	lo := sort.Search(len(sites), func(i int) bool {
		return !sites[i].Target.Less(target)
	})
	hi := sort.Search(len(sites), func(i int) bool {
		return target.Less(sites[i].Target)
	})
	return lo, hi
}
