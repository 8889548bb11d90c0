// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	pkgbytes "github.com/linuxboot/pcirom/pkg/bytes"
	"github.com/linuxboot/pcirom/pkg/log"
)

// serialMarker starts the board serial number some vendors embed.
var serialMarker = []byte("PPID")

// serialStops end a serial number field.
var serialStops = []byte{0xff, 0x00, '\n', '\r'}

// BlankSerialNumber zeroes the serial number field of the image and fixes
// up the last byte so the image still sums to zero. It returns the number
// of bytes cleared and whether a serial number was found.
func (h *Header) BlankSerialNumber() (int, bool) {
	idx, ok := h.Find(serialMarker)
	if !ok {
		return 0, false
	}
	field := h.Raw[idx:h.RomLen]
	n := pkgbytes.IndexAny(field, serialStops...)
	for i := 0; i < n; i++ {
		field[i] = 0
	}
	log.Debugf("cleared %d chars @ %#04x", n, idx-int(h.Data.DataLen))

	// we have to fix the checksum
	h.Raw[h.RomLen-1] -= h.Checksum()
	return n, true
}

// BlankSerialNumbers runs BlankSerialNumber on every image of the chain
// unless kind is not expected to carry serial numbers. It returns the
// total number of bytes cleared.
func BlankSerialNumbers(kind Kind, headers []*Header) int {
	if kind == KindPCI || kind == KindIntel {
		log.Debugf("no serial numbers likely")
		return 0
	}
	var total int
	for _, hdr := range headers {
		log.Debugf("looking for PPID at %#04x", hdr.Offset)
		if n, ok := hdr.BlankSerialNumber(); ok {
			total += n
		}
	}
	return total
}
