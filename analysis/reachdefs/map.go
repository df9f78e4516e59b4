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
	"fmt"
	"io"
	"sort"

	"github.com/mshockwave/dg/analysis/memory"
)

// MergeOptions controls how Map.Merge joins two maps.
type MergeOptions struct {
	// StrongUpdateUnknown allows killing an unknown-offset definition when a
	// single local write covers the whole target and the target size is known.
	StrongUpdateUnknown bool

	// MergeUnknown folds all concrete-offset entries of a target into the
	// target's unknown-offset entry once one exists. For def-use queries a
	// concrete offset and the unknown offset act the same, so keeping the
	// concrete entries costs memory without adding queryable precision.
	MergeUnknown bool

	// MaxSetSize is the number of explicit writers a set may hold before it
	// is collapsed to "unknown".
	MaxSetSize int
}

type entry struct {
	site  DefSite
	nodes *NodeSet
}

// A Map is the reaching-definitions fact at one program point: an ordered
// mapping from def sites to the sets of nodes that may have last written
// them. Each map is exclusively owned by the graph location the fixpoint
// driver associates it with, and is mutated only through its own operations.
//
// The entries are kept in a single slice sorted by (target, offset, len) with
// target primary, so all entries of one region are contiguous and per-region
// scans are a bracket search.
type Map struct {
	defs []entry
}

// NewMap returns an empty reaching-definitions map.
func NewMap() *Map {
	return &Map{}
}

// Len returns the number of def sites in the map.
func (m *Map) Len() int {
	return len(m.defs)
}

// At returns the i-th entry of the map in sorted order. It is meant for
// iterating the bracket returned by ObjectRange.
func (m *Map) At(i int) (DefSite, *NodeSet) {
	return m.defs[i].site, m.defs[i].nodes
}

// find locates ds, or the insertion point keeping the order if absent.
func (m *Map) find(ds DefSite) (int, bool) {
	i := sort.Search(len(m.defs), func(i int) bool { return !defSiteLess(m.defs[i].site, ds) })
	if i < len(m.defs) && m.defs[i].site == ds {
		return i, true
	}
	return i, false
}

// getOrCreate returns the node set for ds, creating an empty one at the
// sorted position if the site is new.
func (m *Map) getOrCreate(ds DefSite) *NodeSet {
	i, ok := m.find(ds)
	if ok {
		return m.defs[i].nodes
	}
	s := NewNodeSet()
	m.defs = append(m.defs, entry{})
	copy(m.defs[i+1:], m.defs[i:])
	m.defs[i] = entry{site: ds, nodes: s}
	return s
}

// objectRange returns the half-open index range [lo, hi) of the entries that
// belong to target. Correctness relies on the target-primary sort order.
func (m *Map) objectRange(target *memory.Region) (int, int) {
	lo := sort.Search(len(m.defs), func(i int) bool { return !m.defs[i].site.Target.Less(target) })
	hi := sort.Search(len(m.defs), func(i int) bool { return target.Less(m.defs[i].site.Target) })
	return lo, hi
}

// ObjectRange brackets the contiguous run of entries belonging to the target
// of ds, as a half-open [begin, end) index range usable with At.
func (m *Map) ObjectRange(ds DefSite) (int, int) {
	return m.objectRange(ds.Target)
}

// Merge joins the other map into m and reports whether m changed. This is
// the transfer step of the fixpoint computation; the returned flag is the
// driver's sole convergence signal.
//
// If noUpdate is non-nil it is the set of def sites the currently processed
// node itself overwrites, sorted by target (SortDefSites order). A definition
// of the other map that is provably fully overwritten by a single local write
// is dead at this point and is not merged (strong update). Definitions of
// dynamic-allocation summaries are never strong-updated: the summary may
// stand for many runtime objects, so no single write can be known to
// overwrite all of them.
//
// A local write at an unknown offset cannot be proven to miss an incoming
// definition, so instead of dropping information the incoming definition is
// degraded to an unknown offset. With opts.MergeUnknown, an unknown-offset
// definition absorbs all concrete-offset entries of its target that m already
// holds; the fold is irreversible within this map.
//
// After the union, sets of known targets exceeding opts.MaxSetSize are
// collapsed to "unknown". Sets of the unknown-memory region are exempt:
// collapsing there would conflate "all memory" with "any node".
func (m *Map) Merge(other *Map, noUpdate []DefSite, opts MergeOptions) bool {
	if m == other {
		return false
	}

	changed := false
	for i := range other.defs {
		ds := other.defs[i].site
		isUnknown := ds.Offset.IsUnknown()

		// STRONG UPDATE: decide whether the local writes make this incoming
		// definition dead. Only a single local write fully covering the
		// definition counts; several writes jointly covering it do not.
		if noUpdate != nil {
			if opts.StrongUpdateUnknown && isUnknown && ds.Target.Size() > 0 &&
				ds.Target.Kind() != memory.DynAllocRegion {
				// The definition covers an unknown part of a target of known
				// size: a local write of the whole target still kills it.
				lo, hi := targetBracket(noUpdate, ds.Target)
				wholeMemory := false
				for _, local := range noUpdate[lo:hi] {
					if !local.Offset.IsUnknown() && !local.Len.IsUnknown() &&
						local.Offset.Value() == 0 && local.Len.Value() >= ds.Target.Size() {
						wholeMemory = true
						break
					}
				}
				if wholeMemory {
					continue
				}
			} else if ds.Target.Kind() != memory.DynAllocRegion {
				skip := false
				lo, hi := targetBracket(noUpdate, ds.Target)
				for _, local := range noUpdate[lo:hi] {
					if local.Offset.IsUnknown() {
						// A local write of unknown extent: keep the incoming
						// definition but degrade it to an unknown offset.
						isUnknown = true
						break
					}
					if !ds.Offset.IsUnknown() && !ds.Len.IsUnknown() && !local.Len.IsUnknown() &&
						ds.Offset.Value() >= local.Offset.Value() &&
						ds.Offset.Value()+ds.Len.Value() <= local.Offset.Value()+local.Len.Value() {
						// The local write contains the whole definition.
						skip = true
						break
					}
				}
				if skip {
					continue
				}
			}
		}

		// MERGE CONCRETE OFFSETS: fold everything we hold for this target
		// into its unknown-offset entry.
		var ours *NodeSet
		if opts.MergeUnknown && isUnknown {
			unkSite := NewDefSite(ds.Target, memory.UnknownOffset(), memory.UnknownOffset())
			ours = m.getOrCreate(unkSite)

			lo, hi := m.objectRange(ds.Target)
			for j := lo; j < hi; j++ {
				if m.defs[j].nodes == ours {
					continue
				}
				changed = ours.Union(m.defs[j].nodes) || changed
			}
			if hi-lo > 1 {
				// The unknown-offset entry sorts last in the bracket; keep
				// only it. Collect-then-erase keeps the scan safe.
				m.defs[lo] = entry{site: unkSite, nodes: ours}
				m.defs = append(m.defs[:lo+1], m.defs[hi:]...)
			}
		} else {
			ours = m.getOrCreate(ds)
		}

		changed = ours.Union(other.defs[i].nodes) || changed

		// Crop the set if it grew too big, except for unknown memory.
		if !ds.Target.IsUnknown() && ours.Size() > opts.MaxSetSize {
			ours.Collapse()
		}
	}

	return changed
}

// Add records node as one more possible writer of ds (weak update) and
// reports whether the map changed.
func (m *Map) Add(ds DefSite, node int) bool {
	return m.getOrCreate(ds).Insert(node)
}

// Update makes node the only writer of ds (strong update) and reports
// whether the map changed. Replacing a collapsed set counts as a change.
func (m *Map) Update(ds DefSite, node int) bool {
	s := m.getOrCreate(ds)
	changed := !s.Has(node) || s.Size() != 1
	s.replaceWith(node)
	return changed
}

// DefinesWithAnyOffset reports whether the map holds any definition of the
// target of ds, at whatever offset.
func (m *Map) DefinesWithAnyOffset(ds DefSite) bool {
	lo, hi := m.objectRange(ds.Target)
	return lo != hi
}

// Get collects into out every node that may have last written the byte range
// [off, off+length) of target, and returns the size of out (UnboundedSize if
// the result collapsed to "any node").
func (m *Map) Get(target *memory.Region, off, length memory.Offset, out *NodeSet) int {
	return m.GetSite(NewDefSite(target, off, length), out)
}

// GetSite is Get for a def-site key.
//
// An unknown query offset matches every definition of the target. Otherwise
// a definition matches when its offset is unknown (it could be anywhere),
// when the query length is unknown and the definition starts at or before
// the query offset, or when the two byte intervals overlap.
func (m *Map) GetSite(ds DefSite, out *NodeSet) int {
	lo, hi := m.objectRange(ds.Target)

	if ds.Offset.IsUnknown() {
		for i := lo; i < hi; i++ {
			out.Union(m.defs[i].nodes)
		}
		return out.Size()
	}

	for i := lo; i < hi; i++ {
		e := m.defs[i]
		switch {
		case e.site.Offset.IsUnknown():
			out.Union(e.nodes)
		case ds.Len.IsUnknown():
			if e.site.Offset.Value() <= ds.Offset.Value() {
				out.Union(e.nodes)
			}
		case e.site.Len.IsUnknown():
			// A definition of unknown extent covers the query unless it
			// starts past the end of the queried range.
			if e.site.Offset.Value() <= ds.Offset.Value()+ds.Len.Value()-1 {
				out.Union(e.nodes)
			}
		default:
			// Closed intervals: the -1 converts the half-open byte ranges.
			if memory.IntervalsOverlap(e.site.Offset.Value(), e.site.Offset.Value()+e.site.Len.Value()-1,
				ds.Offset.Value(), ds.Offset.Value()+ds.Len.Value()-1) {
				out.Union(e.nodes)
			}
		}
	}

	return out.Size()
}

// Show prints the map entries in sorted order, one line per def site.
func (m *Map) Show(w io.Writer) {
	for i := range m.defs {
		fmt.Fprintf(w, "  %s -> %s\n", m.defs[i].site, m.defs[i].nodes)
	}
}
