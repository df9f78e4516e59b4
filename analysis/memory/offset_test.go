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

func TestOffsetAdd(t *testing.T) {
	tests := []struct {
		name        string
		a           Offset
		b           Offset
		wantUnknown bool
		wantValue   uint64
	}{
		{
			name:      "concrete plus concrete",
			a:         NewOffset(4),
			b:         NewOffset(8),
			wantValue: 12,
		},
		{
			name:        "unknown left absorbs",
			a:           UnknownOffset(),
			b:           NewOffset(8),
			wantUnknown: true,
		},
		{
			name:        "unknown right absorbs",
			a:           NewOffset(4),
			b:           UnknownOffset(),
			wantUnknown: true,
		},
		{
			name:        "unknown plus unknown",
			a:           UnknownOffset(),
			b:           UnknownOffset(),
			wantUnknown: true,
		},
		{
			name:      "zero identity",
			a:         NewOffset(0),
			b:         NewOffset(0),
			wantValue: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Add(tt.b)
			if got.IsUnknown() != tt.wantUnknown {
				t.Errorf("Add() unknown = %v, want %v", got.IsUnknown(), tt.wantUnknown)
			}
			if !tt.wantUnknown && got.Value() != tt.wantValue {
				t.Errorf("Add() = %v, want %v", got.Value(), tt.wantValue)
			}
		})
	}
}

func TestOffsetLess(t *testing.T) {
	tests := []struct {
		name string
		a    Offset
		b    Offset
		want bool
	}{
		{name: "concrete numeric order", a: NewOffset(1), b: NewOffset(2), want: true},
		{name: "concrete numeric order reversed", a: NewOffset(2), b: NewOffset(1), want: false},
		{name: "equal concretes", a: NewOffset(3), b: NewOffset(3), want: false},
		{name: "concrete before unknown", a: NewOffset(1 << 62), b: UnknownOffset(), want: true},
		{name: "unknown after concrete", a: UnknownOffset(), b: NewOffset(0), want: false},
		{name: "unknown equals unknown", a: UnknownOffset(), b: UnknownOffset(), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name           string
		a0, a1, b0, b1 uint64
		want           bool
	}{
		{name: "disjoint", a0: 0, a1: 3, b0: 6, b1: 9, want: false},
		{name: "touching endpoints", a0: 0, a1: 6, b0: 6, b1: 9, want: true},
		{name: "contained", a0: 2, a1: 4, b0: 0, b1: 9, want: true},
		{name: "partial overlap", a0: 8, a1: 15, b0: 6, b1: 9, want: true},
		{name: "single point intervals equal", a0: 5, a1: 5, b0: 5, b1: 5, want: true},
		{name: "single point intervals apart", a0: 5, a1: 5, b0: 6, b1: 6, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntervalsOverlap(tt.a0, tt.a1, tt.b0, tt.b1); got != tt.want {
				t.Errorf("IntervalsOverlap() = %v, want %v", got, tt.want)
			}
			// overlap is symmetric
			if got := IntervalsOverlap(tt.b0, tt.b1, tt.a0, tt.a1); got != tt.want {
				t.Errorf("IntervalsOverlap() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}
