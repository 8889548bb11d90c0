// Copyright 2019 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytes contains small helpers for working with byte regions of a
// ROM image.
package bytes

// IsZeroFilled returns true if b consists of zeros only.
func IsZeroFilled(b []byte) bool {
	return IndexNonZero(b) < 0
}

// IndexNonZero returns the index of the first non-zero byte of b, or -1.
func IndexNonZero(b []byte) int {
	for i, v := range b {
		if v != 0 {
			return i
		}
	}
	return -1
}

// IndexAny returns the index of the first byte of b that is one of stops,
// or len(b) if there is none.
func IndexAny(b []byte, stops ...byte) int {
	for i, v := range b {
		for _, s := range stops {
			if v == s {
				return i
			}
		}
	}
	return len(b)
}

// Sum8 returns the wrapping 8-bit sum of all bytes of b.
func Sum8(b []byte) uint8 {
	var sum uint8
	for _, v := range b {
		sum += v
	}
	return sum
}
