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

import "testing"

func TestNodeSetInsert(t *testing.T) {
	s := NewNodeSet()
	if !s.Insert(1) {
		t.Errorf("Insert(1) on empty set = false, want true")
	}
	if s.Insert(1) {
		t.Errorf("second Insert(1) = true, want false")
	}
	if !s.Insert(2) {
		t.Errorf("Insert(2) = false, want true")
	}
	if got := s.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	if !s.Has(1) || !s.Has(2) || s.Has(3) {
		t.Errorf("membership after inserts: Has(1)=%v Has(2)=%v Has(3)=%v", s.Has(1), s.Has(2), s.Has(3))
	}
}

func TestNodeSetCollapse(t *testing.T) {
	s := NewNodeSet()
	s.Insert(1)
	s.Insert(2)
	s.Collapse()

	if !s.IsUnknown() {
		t.Fatalf("IsUnknown() = false after Collapse")
	}
	if got := s.Size(); got != UnboundedSize {
		t.Errorf("Size() = %d, want UnboundedSize", got)
	}
	// a collapsed set matches every query and is never empty
	if !s.Has(1) || !s.Has(42) {
		t.Errorf("collapsed set must match every query")
	}
	if s.Insert(3) {
		t.Errorf("Insert into collapsed set = true, want false (no-op)")
	}
}

func TestNodeSetUnion(t *testing.T) {
	t.Run("grows destination", func(t *testing.T) {
		a, b := NewNodeSet(), NewNodeSet()
		a.Insert(1)
		b.Insert(1)
		b.Insert(2)
		if !a.Union(b) {
			t.Errorf("Union adding a member = false, want true")
		}
		if a.Union(b) {
			t.Errorf("second Union = true, want false")
		}
		if a.Size() != 2 {
			t.Errorf("Size() = %d, want 2", a.Size())
		}
	})

	t.Run("collapsed source collapses destination", func(t *testing.T) {
		a, b := NewNodeSet(), NewNodeSet()
		a.Insert(1)
		b.Collapse()
		if !a.Union(b) {
			t.Errorf("Union from collapsed set = false, want true")
		}
		if !a.IsUnknown() {
			t.Errorf("destination not collapsed after union from collapsed set")
		}
	})

	t.Run("collapsed destination absorbs", func(t *testing.T) {
		a, b := NewNodeSet(), NewNodeSet()
		a.Collapse()
		b.Insert(7)
		if a.Union(b) {
			t.Errorf("Union into collapsed set = true, want false")
		}
	})

	t.Run("self union", func(t *testing.T) {
		a := NewNodeSet()
		a.Insert(1)
		if a.Union(a) {
			t.Errorf("Union with itself = true, want false")
		}
	})
}

func TestNodeSetAppendTo(t *testing.T) {
	s := NewNodeSet()
	s.Insert(5)
	s.Insert(1)
	s.Insert(3)
	got := s.AppendTo(nil)
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("AppendTo() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AppendTo()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
