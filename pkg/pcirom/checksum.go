// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"crypto/sha1"
	"fmt"

	pkgbytes "github.com/linuxboot/pcirom/pkg/bytes"
)

// FingerprintSize is the size of the digest returned by Fingerprint.
const FingerprintSize = sha1.Size

// Checksum returns the 8-bit sum of the image. A valid image sums to zero.
func (h *Header) Checksum() uint8 {
	n := h.RomLen
	if n > uint32(len(h.Raw)) {
		n = uint32(len(h.Raw))
	}
	return pkgbytes.Sum8(h.Raw[:n])
}

// ChecksumValid returns true if the image sums to zero.
func (h *Header) ChecksumValid() bool {
	return h.Checksum() == 0
}

// checksumCheckable is true if the PCI data gives an image length the
// checksum byte can be located with.
func (h *Header) checksumCheckable() bool {
	return h.Data.ImageLen > 0 && h.Data.ImageLen <= h.RomLen && int(h.Data.ImageLen) <= len(h.Raw)
}

// ChecksumStatus describes the checksum byte of the image.
func (h *Header) ChecksumStatus() string {
	if !h.checksumCheckable() {
		return "0x?? [unknown]"
	}
	stored := h.Raw[h.Data.ImageLen-1]
	if sum := h.Checksum(); sum != 0 {
		return fmt.Sprintf("%#02x [failed, got %#02x]", stored, sum)
	}
	return fmt.Sprintf("%#02x [valid]", stored)
}

// Fingerprint returns the SHA-1 digest of the images of the chain, fed in
// chain order. It identifies the firmware and is not meant to resist
// tampering.
func Fingerprint(headers []*Header) [FingerprintSize]byte {
	h := sha1.New()
	for _, hdr := range headers {
		h.Write(hdr.Raw)
	}
	var sum [FingerprintSize]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
