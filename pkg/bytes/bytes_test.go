// Copyright 2019 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytes

import (
	"fmt"
	"testing"
)

func TestIndexNonZero(t *testing.T) {
	for _, tc := range []struct {
		in   []byte
		want int
	}{
		{nil, -1},
		{[]byte{0, 0, 0}, -1},
		{[]byte{1}, 0},
		{[]byte{0, 0, 0xff, 0}, 2},
	} {
		if got := IndexNonZero(tc.in); got != tc.want {
			t.Errorf("IndexNonZero(%v) = %d; want %d", tc.in, got, tc.want)
		}
		if got := IsZeroFilled(tc.in); got != (tc.want < 0) {
			t.Errorf("IsZeroFilled(%v) = %v; want %v", tc.in, got, tc.want < 0)
		}
	}
}

func TestIndexAny(t *testing.T) {
	b := []byte("PPID1234\r\n")
	if got := IndexAny(b, '\r', '\n'); got != 8 {
		t.Errorf("IndexAny = %d; want 8", got)
	}
	if got := IndexAny(b, 0xff); got != len(b) {
		t.Errorf("IndexAny = %d; want %d", got, len(b))
	}
}

func TestSum8(t *testing.T) {
	if got := Sum8([]byte{0x55, 0xaa, 0x01}); got != 0 {
		t.Errorf("Sum8 = %#x; want 0", got)
	}
	if got := Sum8([]byte{0xff, 0x02}); got != 1 {
		t.Errorf("Sum8 = %#x; want 1", got)
	}
}

func TestRangeIntersect(t *testing.T) {
	for _, tc := range []struct {
		a, b Range
		want bool
	}{
		{Range{0, 512}, Range{512, 512}, false},
		{Range{0, 513}, Range{512, 512}, true},
		{Range{0, 0}, Range{0, 10}, false},
		{Range{1024, 10}, Range{0, 1025}, true},
	} {
		t.Run(fmt.Sprintf("%d_%d", tc.a.Offset, tc.b.Offset), func(t *testing.T) {
			if got := tc.a.Intersect(tc.b); got != tc.want {
				t.Errorf("Intersect = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestRangeSlice(t *testing.T) {
	b := []byte{0, 1, 2, 3, 4}
	if got := (Range{Offset: 3, Length: 10}).Slice(b); len(got) != 2 || got[0] != 3 {
		t.Errorf("Slice = %v; want [3 4]", got)
	}
	if got := (Range{Offset: 9, Length: 1}).Slice(b); len(got) != 0 {
		t.Errorf("Slice = %v; want []", got)
	}
	if got := (Range{Offset: 1, Length: ^uint64(0)}).Clamp(5); got != (Range{1, 4}) {
		t.Errorf("Clamp = %v; want {1 4}", got)
	}
}

func TestRanges(t *testing.T) {
	s := Ranges{{0, 512}, {512, 1024}, {1536, 10}}
	if !s.IsContiguous() {
		t.Errorf("%v should be contiguous", s)
	}
	if len(s.Overlapping()) != 0 {
		t.Errorf("%v should not overlap", s)
	}
	s = append(s, Range{1000, 10})
	if s.IsContiguous() {
		t.Errorf("%v should not be contiguous", s)
	}
	if got := s.Overlapping(); len(got) != 1 || got[0] != [2]int{1, 3} {
		t.Errorf("Overlapping = %v; want [[1 3]]", got)
	}
}
