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

// Package memory provides the byte-offset domain and the memory-region
// identities shared by the reaching-definitions and points-to analyses.
package memory

import (
	"fmt"
	"strconv"
)

// An Offset is either a concrete byte offset or the unknown offset. The zero
// value is the concrete offset 0. Unknown is absorbing under addition, and
// callers must branch on IsUnknown before interpreting an offset numerically.
type Offset struct {
	value   uint64
	unknown bool
}

// NewOffset returns a concrete offset with value v.
func NewOffset(v uint64) Offset {
	return Offset{value: v}
}

// UnknownOffset returns the unknown offset.
func UnknownOffset() Offset {
	return Offset{unknown: true}
}

// IsUnknown returns true if the offset is not a concrete value.
func (o Offset) IsUnknown() bool {
	return o.unknown
}

// Value returns the concrete value of the offset. The value of the unknown
// offset is meaningless; callers check IsUnknown first.
func (o Offset) Value() uint64 {
	return o.value
}

// Add returns the sum of the two offsets. If either operand is unknown, the
// result is unknown.
func (o Offset) Add(p Offset) Offset {
	if o.unknown || p.unknown {
		return UnknownOffset()
	}
	return Offset{value: o.value + p.value}
}

// Less orders offsets with every concrete value before the unknown offset.
// Two unknown offsets are equal. This ordering keeps the entries of one
// memory region contiguous in the ordered containers built on top of it.
func (o Offset) Less(p Offset) bool {
	if o.unknown {
		return false
	}
	if p.unknown {
		return true
	}
	return o.value < p.value
}

func (o Offset) String() string {
	if o.unknown {
		return "?"
	}
	return strconv.FormatUint(o.value, 10)
}

// IntervalsOverlap returns true when the closed intervals [a0, a1] and
// [b0, b1] share at least one point.
func IntervalsOverlap(a0, a1, b0, b1 uint64) bool {
	return a0 <= b1 && b0 <= a1
}

// FormatRange renders a [offset, offset+len) byte range for diagnostics.
func FormatRange(off, length Offset) string {
	return fmt.Sprintf("[%s:%s]", off, length)
}
