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

package memory

import "fmt"

// RegionKind classifies what a memory region stands for.
type RegionKind int

const (
	// StackRegion is memory allocated by a stack allocation site.
	StackRegion RegionKind = iota

	// GlobalRegion is a global variable.
	GlobalRegion

	// DynAllocRegion is a summary for all the runtime objects allocated at
	// one dynamic allocation site. A summary may stand for zero or many
	// concrete objects, so it is never strong-updated.
	DynAllocRegion

	// UnknownRegion is memory the analysis could not identify.
	UnknownRegion
)

func (k RegionKind) String() string {
	switch k {
	case StackRegion:
		return "stack"
	case GlobalRegion:
		return "global"
	case DynAllocRegion:
		return "dyn-alloc"
	case UnknownRegion:
		return "unknown"
	default:
		return fmt.Sprintf("RegionKind(%d)", int(k))
	}
}

// A Region is the identity of a tracked memory target: one allocation site or
// variable. Regions are created once during graph construction and immutable
// afterwards. The creation id gives regions a total order that groups the
// entries of one region contiguously in ordered containers.
type Region struct {
	id   uint64
	kind RegionKind
	size uint64
	name string
}

// regionCounter numbers regions in creation order. Graph construction is
// single-threaded (see the resource model), so a plain counter suffices.
var regionCounter uint64

// NewRegion returns a fresh region of the given kind. A size of 0 means the
// size is unknown. The name is only used for diagnostics.
func NewRegion(kind RegionKind, size uint64, name string) *Region {
	regionCounter++
	return &Region{id: regionCounter, kind: kind, size: size, name: name}
}

// UnknownMem is the single region standing for memory the analysis cannot
// identify. Queries and definitions that lose track of their target land here.
var UnknownMem = NewRegion(UnknownRegion, 0, "unknown-memory")

// Kind returns the kind of the region.
func (r *Region) Kind() RegionKind {
	return r.kind
}

// Size returns the size of the region in bytes, 0 if the size is unknown.
func (r *Region) Size() uint64 {
	return r.size
}

// Name returns the diagnostic name given at creation.
func (r *Region) Name() string {
	return r.name
}

// IsUnknown returns true for the unknown-memory region.
func (r *Region) IsUnknown() bool {
	return r.kind == UnknownRegion
}

// Less orders regions by creation id.
func (r *Region) Less(o *Region) bool {
	return r.id < o.id
}

// ID returns the creation id of the region.
func (r *Region) ID() uint64 {
	return r.id
}

func (r *Region) String() string {
	if r.name != "" {
		return fmt.Sprintf("%s<%s,%d>", r.name, r.kind, r.size)
	}
	return fmt.Sprintf("region%d<%s,%d>", r.id, r.kind, r.size)
}
