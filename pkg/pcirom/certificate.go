// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"encoding/binary"

	"github.com/linuxboot/pcirom/pkg/log"
)

const (
	certificateMagic          = "ISBN"
	certificatePreambleLength = 27
	certificateSegmentHeader  = 29
	certificateNextOffset     = 13
)

// Certificate segment kinds.
const (
	CertificateKindCertificate = 0x01
	CertificateKindHashes      = 0x02
)

// CertificateSegment is one segment of an "ISBN" certificate block.
type CertificateSegment struct {
	// Offset of the segment header, relative to the end of the preamble.
	Offset int
	Kind   uint8
	Data   []byte `json:"-"`
}

// KindName returns a name for the segment kind.
func (s CertificateSegment) KindName() string {
	switch s.Kind {
	case CertificateKindCertificate:
		return "certificate"
	case CertificateKindHashes:
		return "hashes"
	}
	return "unknown"
}

// Certificates returns the segments of the certificate block which follows
// the PCI Data Structure of images with the certificate code type. The
// segment layout is undocumented: a 27 byte preamble, then segments with a
// 29 byte header holding the kind at +1 and the little-endian offset of the
// next segment at +13, zero on the last one.
func (h *Header) Certificates() []CertificateSegment {
	if !h.HasData || h.Data.CodeType != CodeTypeCertificate {
		return nil
	}
	start := int(h.CPIPtr) + int(h.Data.DataLen)
	if !h.hasAt(start, certificateMagic) {
		return nil
	}
	end := start + int(h.Data.ImageLen)
	if end > len(h.Raw) {
		end = len(h.Raw)
	}
	if start+certificatePreambleLength > end {
		return nil
	}
	body := h.Raw[start+certificatePreambleLength : end]

	var segments []CertificateSegment
	off := 0
	for off+certificateSegmentHeader <= len(body) {
		next := int(binary.LittleEndian.Uint16(body[off+certificateNextOffset:]))
		segEnd := len(body)
		if next != 0 {
			segEnd = next
		}
		if segEnd < off+certificateSegmentHeader || segEnd > len(body) {
			log.Debugf("ISBN segment @%#02x: bad next offset %#04x", off, next)
			break
		}
		seg := CertificateSegment{
			Offset: off,
			Kind:   body[off+1],
			Data:   body[off+certificateSegmentHeader : segEnd],
		}
		if seg.KindName() == "unknown" {
			log.Warnf("unknown segment kind %d", seg.Kind)
		}
		segments = append(segments, seg)
		if next == 0 || next <= off {
			break
		}
		off = next
	}
	return segments
}
