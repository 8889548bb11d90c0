// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"encoding/binary"

	pkgbytes "github.com/linuxboot/pcirom/pkg/bytes"
)

// testDataPtr keeps the PCI Data Structure clear of the vendor markers at
// 0x04 and 0x30.
const testDataPtr = 0x40

// newTestROM returns a single image of the given number of blocks with a
// PCI 3.0 data structure describing a VGA controller.
func newTestROM(blocks uint8, vendor, device uint16) []byte {
	b := make([]byte, int(blocks)*BlockSize)
	b[0], b[1], b[2] = 0x55, 0xaa, blocks
	b[3], b[4], b[5] = 0xe9, 0x34, 0x12
	binary.LittleEndian.PutUint16(b[dataPointerOffset:], testDataPtr)

	d := b[testDataPtr:]
	copy(d, "PCIR")
	binary.LittleEndian.PutUint16(d[0x04:], vendor)
	binary.LittleEndian.PutUint16(d[0x06:], device)
	binary.LittleEndian.PutUint16(d[0x0a:], 0x1c)
	d[0x0c] = 0x03
	d[0x0d], d[0x0e], d[0x0f] = 0x00, 0x00, 0x03
	binary.LittleEndian.PutUint16(d[0x10:], uint16(blocks))
	binary.LittleEndian.PutUint16(d[0x12:], 0x0102)
	d[0x14] = uint8(CodeTypeIntel86)
	d[0x15] = LastImageIndicator
	binary.LittleEndian.PutUint16(d[0x16:], 1)
	return b
}

// fixChecksum sets the last byte of b so that b sums to zero.
func fixChecksum(b []byte) []byte {
	b[len(b)-1] -= pkgbytes.Sum8(b)
	return b
}

func put(b []byte, off int, s string) []byte {
	copy(b[off:], s)
	return b
}

// joinPadded concatenates images and pads the result with zeros to size.
func joinPadded(size int, images ...[]byte) []byte {
	var buf []byte
	for _, img := range images {
		buf = append(buf, img...)
	}
	if len(buf) < size {
		buf = append(buf, make([]byte, size-len(buf))...)
	}
	return buf
}
