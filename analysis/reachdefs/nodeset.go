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
	"golang.org/x/tools/container/intsets"
)

// UnboundedSize is the size reported by a collapsed NodeSet. A collapsed set
// stands for "any possible writer" and must never be read as empty.
const UnboundedSize = -1

// A NodeSet is a deduplicating set of defining-node ids. Once too many
// writers accumulate for one byte range the set is collapsed to "unknown",
// trading the identity of the writers for bounded memory. Collapsing is
// irreversible: a collapsed set answers every membership query positively and
// ignores further insertions.
type NodeSet struct {
	nodes   intsets.Sparse
	unknown bool
}

// NewNodeSet returns an empty, concrete node set.
func NewNodeSet() *NodeSet {
	return &NodeSet{}
}

// Insert adds the node id to the set and reports whether the set grew.
// Inserting into a collapsed set is a no-op.
func (s *NodeSet) Insert(id int) bool {
	if s.unknown {
		return false
	}
	return s.nodes.Insert(id)
}

// Has reports whether the node id is in the set. A collapsed set matches
// every query.
func (s *NodeSet) Has(id int) bool {
	if s.unknown {
		return true
	}
	return s.nodes.Has(id)
}

// Size returns the number of explicit members, or UnboundedSize if the set
// has been collapsed.
func (s *NodeSet) Size() int {
	if s.unknown {
		return UnboundedSize
	}
	return s.nodes.Len()
}

// IsUnknown reports whether the set has been collapsed.
func (s *NodeSet) IsUnknown() bool {
	return s.unknown
}

// Collapse irreversibly marks the set as "any possible writer" and drops the
// explicit members.
func (s *NodeSet) Collapse() {
	s.unknown = true
	s.nodes.Clear()
}

// Union adds every member of o to s and reports whether s changed. A
// collapsed o collapses s (the source stands for any writer); a collapsed s
// absorbs everything without changing.
func (s *NodeSet) Union(o *NodeSet) bool {
	if s == o || s.unknown {
		return false
	}
	if o.unknown {
		s.Collapse()
		return true
	}
	return s.nodes.UnionWith(&o.nodes)
}

// AppendTo appends the explicit members in ascending order and returns the
// extended slice. The members of a collapsed set are not enumerable; callers
// check IsUnknown first.
func (s *NodeSet) AppendTo(ids []int) []int {
	if s.unknown {
		return ids
	}
	return s.nodes.AppendTo(ids)
}

// replaceWith makes s exactly {id}, clearing any collapse. Only Map.Update
// uses this; it is the one deliberate non-monotone operation (a deterministic
// strong update).
func (s *NodeSet) replaceWith(id int) {
	s.unknown = false
	s.nodes.Clear()
	s.nodes.Insert(id)
}

func (s *NodeSet) String() string {
	if s.unknown {
		return "{?}"
	}
	return s.nodes.String()
}
