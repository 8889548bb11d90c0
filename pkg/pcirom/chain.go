// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"encoding/binary"
	"fmt"

	pkgbytes "github.com/linuxboot/pcirom/pkg/bytes"
	"github.com/linuxboot/pcirom/pkg/log"
)

const (
	// ifrSignature starts the NVIDIA "IFR" block placed in front of the
	// option ROM on some boards.
	ifrSignature        = "NVGI"
	ifrHeaderSizeOffset = 0x15
)

// ifrHeaderSize returns how many bytes to skip before the first option ROM
// header, read big-endian from the IFR block if there is one.
func ifrHeaderSize(buf []byte) uint32 {
	if !hasAt(buf, 0, ifrSignature) || len(buf) < ifrHeaderSizeOffset+2 {
		return 0
	}
	return uint32(binary.BigEndian.Uint16(buf[ifrHeaderSizeOffset:]))
}

// hasTrailingData reports whether the undecodable region at offset holds
// anything other than NUL padding. It looks at as many bytes as precede
// offset, clamped to the end of buf.
func hasTrailingData(buf []byte, offset uint32) bool {
	window := pkgbytes.Range{Offset: uint64(offset), Length: uint64(offset)}
	return !pkgbytes.IsZeroFilled(window.Slice(buf))
}

// Walk decodes the chain of images in buf. Each image's RomLen (or the
// ImageLen of its PCI data if RomLen is zero) gives the distance to the
// next one. Non-padding data which does not decode ends the chain with a
// synthetic header covering the rest of buf.
func Walk(buf []byte) ([]*Header, error) {
	var headers []*Header

	hdrSz := uint64(ifrHeaderSize(buf))
	var jump uint64
	for uint64(len(buf)) > hdrSz+jump {
		offset := uint32(hdrSz + jump)
		log.Debugf("looking for PCI ROM @ %#04x", offset)
		hdr, ok := NewHeader(buf, offset)
		if !ok {
			if hasTrailingData(buf, offset) {
				log.Debugf("found junk data @ %#04x, adding fake", offset)
				headers = append(headers, newSyntheticHeader(buf, offset))
			} else {
				log.Debugf("ignoring padding @ %#04x", offset)
			}
			break
		}

		// last_image is not a reliable terminator, NVIDIA packs extended
		// images behind the one marked last
		headers = append(headers, hdr)

		// NVIDIA don't always set a ROM size for extensions
		jumpSz := uint64(hdr.RomLen)
		if jumpSz == 0 {
			jumpSz = uint64(hdr.Data.ImageLen)
		}
		if jumpSz == 0 {
			break
		}
		jump += jumpSz
	}

	if len(headers) == 0 {
		var sig []byte
		if len(buf) >= 2 {
			sig = buf[:2]
		}
		return nil, fmt.Errorf("%w [%x]", ErrNoHeaderFound, sig)
	}
	return headers, nil
}
