// Copyright 2019 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytes

import (
	"fmt"
	"strings"
)

// Range defines a generic bytes range within a ROM buffer.
type Range struct {
	Offset uint64
	Length uint64
}

func (r Range) String() string {
	return fmt.Sprintf(`{"Offset":"0x%x", "Length":"0x%x"}`, r.Offset, r.Length)
}

// End returns the offset of the first byte after the range.
func (r Range) End() uint64 {
	return r.Offset + r.Length
}

// Intersect returns True if ranges "r" and "cmp" has at least
// one byte with the same offset.
func (r Range) Intersect(cmp Range) bool {
	if r.Length == 0 || cmp.Length == 0 {
		return false
	}
	if r.End() <= cmp.Offset {
		return false
	}
	if r.Offset >= cmp.End() {
		return false
	}
	return true
}

// Clamp returns the part of r which fits into a buffer of size length.
func (r Range) Clamp(length uint64) Range {
	if r.Offset >= length {
		return Range{Offset: length}
	}
	if r.End() > length || r.End() < r.Offset {
		r.Length = length - r.Offset
	}
	return r
}

// Slice returns the bytes of b covered by r, clamped to len(b).
func (r Range) Slice(b []byte) []byte {
	c := r.Clamp(uint64(len(b)))
	return b[c.Offset:c.End()]
}

// Ranges is a helper to manipulate multiple `Range`-s at once
type Ranges []Range

func (s Ranges) String() string {
	r := make([]string, 0, len(s))
	for _, oneRange := range s {
		r = append(r, oneRange.String())
	}
	return `[` + strings.Join(r, `, `) + `]`
}

// IsContiguous returns true if every range starts where the previous one
// ends.
func (s Ranges) IsContiguous() bool {
	for i := 1; i < len(s); i++ {
		if s[i-1].End() != s[i].Offset {
			return false
		}
	}
	return true
}

// Overlapping returns the index pairs of ranges which intersect.
func (s Ranges) Overlapping() [][2]int {
	var result [][2]int
	for i := range s {
		for j := i + 1; j < len(s); j++ {
			if s[i].Intersect(s[j]) {
				result = append(result, [2]int{i, j})
			}
		}
	}
	return result
}
