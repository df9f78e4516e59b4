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

// Package pointsto holds the abstract points-to data model that accompanies
// the reaching-definitions computation: abstract pointers, memory objects
// with offset-indexed points-to maps, and the pass shell a fixpoint driver
// invokes per node. The instruction-level transfer logic is supplied by the
// caller.
package pointsto

import (
	"fmt"

	"github.com/mshockwave/dg/analysis/depgraph"
	"github.com/mshockwave/dg/analysis/memory"
)

// A Pointer is an abstract pointer value: a memory object and an offset into
// it. Pointers are comparable and usable as map keys.
type Pointer struct {
	// Obj is the object pointed into.
	Obj *MemoryObj

	// Offset is the byte offset within the object, possibly unknown.
	Offset memory.Offset
}

// NewPointer returns a pointer to the given offset of obj.
func NewPointer(obj *MemoryObj, off memory.Offset) Pointer {
	return Pointer{Obj: obj, Offset: off}
}

// Less orders pointers by object identity first, then offset.
func (p Pointer) Less(o Pointer) bool {
	if p.Obj != o.Obj {
		return p.Obj.id < o.Obj.id
	}
	return p.Offset.Less(o.Offset)
}

func (p Pointer) String() string {
	return fmt.Sprintf("%s+%s", p.Obj, p.Offset)
}

// PointsToSet is a set of abstract pointers.
type PointsToSet = map[Pointer]bool

// objCounter numbers memory objects in creation order for the Pointer
// ordering. Object creation is single-threaded.
var objCounter uint64

// A MemoryObj is an abstract memory object wrapping its defining node. It
// records, per byte offset, the set of pointers the object may hold there.
// An object can be collapsed to "unknown" (it may point to anything), which
// discards all points-to content and rejects further refinement.
type MemoryObj struct {
	id   uint64
	node *depgraph.Node

	pointsTo map[memory.Offset]PointsToSet
}

// NewMemoryObj returns a memory object for the allocation node n.
func NewMemoryObj(n *depgraph.Node) *MemoryObj {
	objCounter++
	return &MemoryObj{
		id:       objCounter,
		node:     n,
		pointsTo: make(map[memory.Offset]PointsToSet),
	}
}

// Node returns the defining node, nil once the object is unknown.
func (m *MemoryObj) Node() *depgraph.Node {
	return m.node
}

// IsUnknown reports whether the object has been collapsed to the top
// element.
func (m *MemoryObj) IsUnknown() bool {
	return m.node == nil
}

// SetUnknown collapses the object: all points-to content is discarded and
// every later AddPointsTo is a no-op. It reports whether the object changed.
func (m *MemoryObj) SetUnknown() bool {
	if m.IsUnknown() {
		return false
	}
	m.pointsTo = nil
	m.node = nil
	return true
}

// AddPointsTo records that the object may hold ptr at the given offset (weak
// update) and reports whether anything was added. Adding to an unknown
// object is a no-op: the object already points to anything.
func (m *MemoryObj) AddPointsTo(off memory.Offset, ptr Pointer) bool {
	if m.IsUnknown() {
		return false
	}
	set, ok := m.pointsTo[off]
	if !ok {
		set = make(PointsToSet)
		m.pointsTo[off] = set
	}
	if set[ptr] {
		return false
	}
	set[ptr] = true
	return true
}

// PointsTo returns the set of pointers the object may hold at the given
// offset, nil if none is recorded or the object is unknown.
func (m *MemoryObj) PointsTo(off memory.Offset) PointsToSet {
	return m.pointsTo[off]
}

func (m *MemoryObj) String() string {
	if m.IsUnknown() {
		return "obj<?>"
	}
	return fmt.Sprintf("obj<%s>", m.node)
}
