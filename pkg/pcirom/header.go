// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/bytesextra"

	pkgbytes "github.com/linuxboot/pcirom/pkg/bytes"
	"github.com/linuxboot/pcirom/pkg/log"
)

// PCI Firmware Specification 3.0, chapter 5.1
// http://resources.infosecinstitute.com/pci-expansion-rom/

// Signatures of an expansion ROM header and of the PCI Data Structure.
var (
	Signature       = [2]byte{0x55, 0xaa}
	NvidiaSignature = [2]byte{0x56, 0x4e}
	DataSignature   = [4]byte{'P', 'C', 'I', 'R'}

	// NVIDIA images sometimes carry their own data structure tags.
	nvidiaDataSignatures = [][4]byte{
		{'R', 'G', 'I', 'S'},
		{'N', 'P', 'D', 'S'},
		{'N', 'P', 'D', 'E'},
	}
)

const (
	// BlockSize is the unit of the size fields of the header and of the
	// PCI Data Structure.
	BlockSize = 512

	// LastImageIndicator is set in PCIData.LastImage on the final image.
	LastImageIndicator = 0x80

	// headerLength covers everything up to and including the pointer to
	// the PCI Data Structure.
	headerLength      = 0x1a
	reservedOffset    = 0x06
	reservedLength    = 18
	dataPointerOffset = 0x18
)

// PCIData is the decoded PCI Data Structure of a header.
type PCIData struct {
	VendorID        uint16
	DeviceID        uint16
	DeviceListPtr   uint16
	DataLen         uint16
	DataRev         uint8
	ClassCode       uint32
	ImageLen        uint32
	RevisionLevel   uint16
	CodeType        CodeType
	LastImage       uint8
	MaxRuntimeLen   uint32
	ConfigHeaderPtr uint16
	DMTFCLPPtr      uint16
}

// dataStructure is the on-flash layout of the PCI Data Structure.
type dataStructure struct {
	Signature             [4]byte
	VendorID              uint16
	DeviceID              uint16
	DeviceListPtr         uint16
	Length                uint16
	Revision              uint8
	ClassCode             [3]uint8
	ImageLength           uint16
	RevisionLevel         uint16
	CodeType              uint8
	Indicator             uint8
	MaxRuntimeImageLength uint16
	ConfigHeaderPtr       uint16
	DMTFCLPPtr            uint16
}

// Header is one image of the option ROM chain.
type Header struct {
	// Offset of the header within the source buffer.
	Offset uint32
	// Raw is a private copy of the image bytes, RomLen bytes long.
	Raw []byte `json:"-"`
	// RomLen is the image size in bytes. An image declaring size zero
	// extends to the end of the buffer.
	RomLen     uint32
	EntryPoint uint32
	Reserved   [reservedLength]byte
	CPIPtr     uint16

	// HasData is false if no PCI Data Structure could be decoded, in
	// which case Data is zeroed.
	HasData bool
	Data    PCIData

	// Synthetic is set on the header made up for trailing data which
	// does not start with a signature.
	Synthetic bool
}

// NewHeader decodes the image starting at offset of buf. It returns false
// if there is no valid signature at offset.
func NewHeader(buf []byte, offset uint32) (*Header, bool) {
	if uint64(offset)+headerLength > uint64(len(buf)) {
		return nil, false
	}
	b := buf[offset:]

	// check signature
	sig := [2]byte{b[0], b[1]}
	switch sig {
	case Signature:
	case NvidiaSignature:
		log.Debugf("-- using NVIDIA ROM quirk @ %#04x", offset)
	default:
		log.Debugf("Not PCI ROM @ %#04x: % x", offset, b[:2])
		return nil, false
	}

	romLen := uint32(b[2]) * BlockSize
	if romLen == 0 {
		log.Debugf("fixing up last image size @ %#04x", offset)
		romLen = uint32(len(b))
	}
	if romLen > uint32(len(b)) {
		log.Debugf("image @ %#04x truncated: %#x > %#x", offset, romLen, len(b))
		romLen = uint32(len(b))
	}

	hdr := &Header{
		Offset:     offset,
		Raw:        append([]byte(nil), b[:romLen]...),
		RomLen:     romLen,
		EntryPoint: uint32(b[3]) | uint32(b[4])<<8 | uint32(b[5])<<16,
		CPIPtr:     binary.LittleEndian.Uint16(b[dataPointerOffset:]),
	}
	copy(hdr.Reserved[:], b[reservedOffset:reservedOffset+reservedLength])

	log.Debugf("looking for PCI DATA @ %#04x", hdr.CPIPtr)
	hdr.HasData = hdr.parseData()
	return hdr, true
}

// newSyntheticHeader covers buf[offset:] with a header which claims to be
// the last image and carries no PCI data.
func newSyntheticHeader(buf []byte, offset uint32) *Header {
	raw := append([]byte(nil), buf[offset:]...)
	return &Header{
		Offset: offset,
		Raw:    raw,
		RomLen: uint32(len(raw)),
		Data: PCIData{
			CodeType:  CodeTypeIntel86,
			LastImage: LastImageIndicator,
			ImageLen:  uint32(len(raw)),
		},
		Synthetic: true,
	}
}

func isDataSignature(sig [4]byte) bool {
	if sig == DataSignature {
		return true
	}
	for _, s := range nvidiaDataSignatures {
		if sig == s {
			log.Debugf("-- using NVIDIA DATA quirk")
			return true
		}
	}
	return false
}

// parseData decodes the PCI Data Structure pointed to by CPIPtr. Data is
// only modified on success.
func (h *Header) parseData() bool {
	if h.CPIPtr == 0 {
		log.Debugf("No PCI DATA @ %#04x", h.Offset)
		return false
	}
	if h.RomLen > 0 && uint32(h.CPIPtr) > h.RomLen {
		log.Debugf("No available PCI DATA @ %#04x : %#04x > %#04x", h.Offset, h.CPIPtr, h.RomLen)
		return false
	}

	r := bytesextra.NewReadWriteSeeker(h.Raw)
	if _, err := r.Seek(int64(h.CPIPtr), io.SeekStart); err != nil {
		log.Debugf("Invalid PCI DATA @ %#04x: %v", h.Offset, err)
		return false
	}
	var ds dataStructure
	if err := binary.Read(r, binary.LittleEndian, &ds); err != nil {
		log.Debugf("Truncated PCI DATA @ %#04x: %v", h.Offset, err)
		return false
	}
	if !isDataSignature(ds.Signature) {
		log.Debugf("Not PCI DATA: % x [%q]", ds.Signature[:], ds.Signature[:])
		return false
	}

	h.Data = PCIData{
		VendorID:        ds.VendorID,
		DeviceID:        ds.DeviceID,
		DeviceListPtr:   ds.DeviceListPtr,
		DataLen:         ds.Length,
		DataRev:         ds.Revision,
		ClassCode:       uint32(ds.ClassCode[0]) | uint32(ds.ClassCode[1])<<8 | uint32(ds.ClassCode[2])<<16,
		ImageLen:        uint32(ds.ImageLength) * BlockSize,
		RevisionLevel:   ds.RevisionLevel,
		CodeType:        CodeType(ds.CodeType),
		LastImage:       ds.Indicator,
		MaxRuntimeLen:   uint32(ds.MaxRuntimeImageLength) * BlockSize,
		ConfigHeaderPtr: ds.ConfigHeaderPtr,
		DMTFCLPPtr:      ds.DMTFCLPPtr,
	}
	return true
}

// Find returns the offset within Raw of the first occurrence of needle in
// the region following the PCI data length. It never matches if that
// region is inconsistent.
func (h *Header) Find(needle []byte) (int, bool) {
	if len(needle) == 0 {
		return -1, false
	}
	start := uint32(h.Data.DataLen)
	if start > h.RomLen || h.RomLen > uint32(len(h.Raw)) {
		return -1, false
	}
	haystack := h.Raw[start:h.RomLen]
	if len(needle) > len(haystack) {
		return -1, false
	}
	idx := bytes.Index(haystack, needle)
	if idx < 0 {
		return -1, false
	}
	return int(start) + idx, true
}

// FindString is Find for a string needle.
func (h *Header) FindString(needle string) (int, bool) {
	return h.Find([]byte(needle))
}

// hasAt reports whether Raw holds s at offset off.
func (h *Header) hasAt(off int, s string) bool {
	return hasAt(h.Raw, off, s)
}

func hasAt(b []byte, off int, s string) bool {
	if off < 0 || off+len(s) > len(b) {
		return false
	}
	return string(b[off:off+len(s)]) == s
}

// Range returns the bytes range of the image within the source buffer.
func (h *Header) Range() pkgbytes.Range {
	return pkgbytes.Range{Offset: uint64(h.Offset), Length: uint64(h.RomLen)}
}

// IsLast returns true if the PCI data marks this as the final image.
func (h *Header) IsLast() bool {
	return h.Data.LastImage&LastImageIndicator != 0
}

// Summary prints a multi-line summary of the header's content.
func (h *Header) Summary() string {
	s := "PCI Header\n"
	s += fmt.Sprintf(" RomOffset: %#04x\n", h.Offset)
	s += fmt.Sprintf(" RomSize:   %#04x (%s)\n", h.RomLen, humanize.IBytes(uint64(h.RomLen)))
	s += fmt.Sprintf(" EntryPnt:  %#06x\n", h.EntryPoint)
	s += fmt.Sprintf(" Reserved:  % x\n", h.Reserved[:])
	s += fmt.Sprintf(" CpiPtr:    %#04x\n", h.CPIPtr)
	if h.Synthetic {
		s += "  Trailing data, no header\n"
	}
	if !h.HasData {
		s += "  No PCI Data\n"
		s += fmt.Sprintf("   ChkSum:    %s\n", h.ChecksumStatus())
		return s
	}
	d := h.Data
	s += "  PCI Data\n"
	s += fmt.Sprintf("   VendorID:  %#04x\n", d.VendorID)
	s += fmt.Sprintf("   DeviceID:  %#04x\n", d.DeviceID)
	s += fmt.Sprintf("   DevList:   %#04x\n", d.DeviceListPtr)
	s += fmt.Sprintf("   DataLen:   %#04x\n", d.DataLen)
	s += fmt.Sprintf("   DataRev:   %#04x\n", d.DataRev)
	s += fmt.Sprintf("   ClassCode: %#06x\n", d.ClassCode)
	s += fmt.Sprintf("   ImageLen:  %#04x (%s)\n", d.ImageLen, humanize.IBytes(uint64(d.ImageLen)))
	s += fmt.Sprintf("   RevLevel:  %#04x\n", d.RevisionLevel)
	s += fmt.Sprintf("   CodeType:  %s\n", d.CodeType)
	s += fmt.Sprintf("   LastImg:   %#02x [%s]\n", d.LastImage, yesNo(d.LastImage == LastImageIndicator))
	s += fmt.Sprintf("   MaxRunLen: %#04x\n", d.MaxRuntimeLen)
	s += fmt.Sprintf("   ConfigHdr: %#04x\n", d.ConfigHeaderPtr)
	s += fmt.Sprintf("   ClpPtr:    %#04x\n", d.DMTFCLPPtr)
	for _, seg := range h.Certificates() {
		s += fmt.Sprintf("   ISBN segment @%#02x: kind %#02x [%s], %d bytes\n",
			seg.Offset, seg.Kind, seg.KindName(), len(seg.Data))
	}
	s += fmt.Sprintf("   ChkSum:    %s\n", h.ChecksumStatus())
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
