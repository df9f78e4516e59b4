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

import "testing"

func TestRegionOrder(t *testing.T) {
	a := NewRegion(StackRegion, 8, "a")
	b := NewRegion(GlobalRegion, 16, "b")
	if !a.Less(b) {
		t.Errorf("regions must be ordered by creation: a.Less(b) = false")
	}
	if b.Less(a) {
		t.Errorf("b.Less(a) = true, want false")
	}
	if a.Less(a) {
		t.Errorf("a.Less(a) = true, want false")
	}
}

func TestRegionKinds(t *testing.T) {
	tests := []struct {
		name        string
		region      *Region
		wantKind    RegionKind
		wantSize    uint64
		wantUnknown bool
	}{
		{name: "stack", region: NewRegion(StackRegion, 16, "x"), wantKind: StackRegion, wantSize: 16},
		{name: "heap summary", region: NewRegion(DynAllocRegion, 0, "m"), wantKind: DynAllocRegion},
		{name: "unknown memory", region: UnknownMem, wantKind: UnknownRegion, wantUnknown: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.Kind(); got != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got, tt.wantKind)
			}
			if got := tt.region.Size(); got != tt.wantSize {
				t.Errorf("Size() = %v, want %v", got, tt.wantSize)
			}
			if got := tt.region.IsUnknown(); got != tt.wantUnknown {
				t.Errorf("IsUnknown() = %v, want %v", got, tt.wantUnknown)
			}
		})
	}
}
