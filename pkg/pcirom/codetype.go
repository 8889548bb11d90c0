// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import "fmt"

// CodeType is the code type field of the PCI Data Structure.
type CodeType uint8

// Code types defined by the PCI Firmware specification.
const (
	CodeTypeIntel86      CodeType = 0x00
	CodeTypeOpenFirmware CodeType = 0x01
	CodeTypePARISC       CodeType = 0x02
	CodeTypeEFI          CodeType = 0x03
	// CodeTypeCertificate is not standard. Some vendors use it for a
	// trailing "ISBN" certificate block.
	CodeTypeCertificate CodeType = 0x70
)

// Name returns the human readable code type, "reserved" if unknown.
func (c CodeType) Name() string {
	switch c {
	case CodeTypeIntel86:
		return "Intel86"
	case CodeTypeOpenFirmware:
		return "OpenFirmware"
	case CodeTypePARISC:
		return "PA-RISC"
	case CodeTypeEFI:
		return "EFI"
	}
	return "reserved"
}

func (c CodeType) String() string {
	return fmt.Sprintf("%#02x [%s]", uint8(c), c.Name())
}
