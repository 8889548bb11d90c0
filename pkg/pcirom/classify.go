// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"encoding/binary"
	"fmt"
)

// Markers used to tell vendors apart.
const (
	// intelReservedMarker in the reserved bytes of the first header means
	// the VBT offset is stored little-endian at intelHeaderSizeOffset.
	intelReservedMarker   = "00000000000"
	intelHeaderSizeOffset = 0x1a

	nvidiaMarker       = "K74"
	nvidiaMarkerOffset = 0x04
	intelMarker        = "$VBT"
	atiMarker          = " 761295520"
	atiMarkerOffset    = 0x30
)

// Classify determines the vendor family of the option ROM in buf, whose
// decoded chain is headers.
//
// The IFR skip is read big-endian while the Intel one is read
// little-endian. Both are what the firmware in the field uses.
func Classify(buf []byte, headers []*Header) (Kind, error) {
	if len(headers) == 0 {
		return KindUnknown, ErrUnknownKind
	}
	kind := KindPCI

	hdrSz := uint64(ifrHeaderSize(buf))
	if hasAt(headers[0].Reserved[:], 0, intelReservedMarker) {
		if len(buf) < intelHeaderSizeOffset+2 {
			return KindUnknown, fmt.Errorf("%w: no room for header size", ErrCorruptOverflow)
		}
		hdrSz = uint64(binary.LittleEndian.Uint16(buf[intelHeaderSizeOffset:]))
	}
	if hdrSz > uint64(len(buf)) {
		return KindUnknown, fmt.Errorf("%w: header size %#x > %#x", ErrCorruptOverflow, hdrSz, len(buf))
	}

	switch {
	case hasAt(buf, int(hdrSz)+nvidiaMarkerOffset, nvidiaMarker):
		kind = KindNvidia
	case hasAt(buf, int(hdrSz), intelMarker):
		kind = KindIntel
	case hasAt(buf, atiMarkerOffset, atiMarker):
		kind = KindATI
	}
	return kind, nil
}
