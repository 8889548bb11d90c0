// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package guid implements the mixed-endian GUID as implemented by Microsoft,
// and the name-based identifiers pcirom derives for option ROMs.
package guid

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linuxboot/pcirom/pkg/log"
)

const (
	// Size represents number of bytes in a GUID
	Size = 16
	// UExample is a example of a string GUID
	UExample  = "01234567-89AB-CDEF-0123-456789ABCDEF"
	strFormat = "%02X%02X%02X%02X-%02X%02X-%02X%02X-%02X%02X-%02X%02X%02X%02X%02X%02X"
)

var (
	fields = [...]int{4, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1}

	// NameSpaceDNS is the RFC 4122 namespace for fully qualified domain
	// names.
	NameSpaceDNS = *MustParse("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
)

// GUID represents a unique identifier. The first three fields are stored
// little-endian.
type GUID [Size]byte

func reverse(b []byte) {
	for i := 0; i < len(b)/2; i++ {
		other := len(b) - i - 1
		b[other], b[i] = b[i], b[other]
	}
}

// swapFields converts between the stored and the RFC 4122 byte order.
func swapFields(u *GUID) {
	i := 0
	for _, fieldlen := range fields {
		reverse(u[i : i+fieldlen])
		i += fieldlen
	}
}

// Parse parses a guid string.
func Parse(s string) (*GUID, error) {
	// remove all hyphens to make it easier to parse.
	stripped := strings.Replace(s, "-", "", -1)
	decoded, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("guid string not correct, need string of the format \n%v\n, got \n%v",
			UExample, s)
	}

	if len(decoded) != Size {
		return nil, fmt.Errorf("guid string has incorrect length, need string of the format \n%v\n, got \n%v",
			UExample, s)
	}

	u := GUID{}
	copy(u[:], decoded[:])
	swapFields(&u)
	return &u, nil
}

// MustParse parses a guid string or panics.
func MustParse(s string) *GUID {
	guid, err := Parse(s)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return guid
}

// NewSHA1 returns the name-based (version 5) GUID of name within ns.
func NewSHA1(ns GUID, name []byte) GUID {
	// hash in network order
	swapFields(&ns)
	h := sha1.New()
	h.Write(ns[:])
	h.Write(name)

	var u GUID
	copy(u[:], h.Sum(nil))
	u[6] = (u[6] & 0x0f) | 0x50
	u[8] = (u[8] & 0x3f) | 0x80
	swapFields(&u)
	return u
}

// FromPCIID returns the stable GUID of a PCI vendor and device id pair. It
// is derived from "0xVVVV:0xDDDD" in the DNS namespace.
func FromPCIID(vendor, device uint16) GUID {
	return NewSHA1(NameSpaceDNS, []byte(fmt.Sprintf("0x%04x:0x%04x", vendor, device)))
}

// Version returns the version nibble in RFC 4122 terms.
func (u GUID) Version() int {
	// byte 6 of the RFC layout is the high byte of the stored third field
	return int(u[7] >> 4)
}

func (u GUID) String() string {
	// Not a pointer receiver so we don't have to manually copy.
	swapFields(&u)
	// Convert to []interface{} for easy printing.
	b := make([]interface{}, Size)
	for i := range u[:] {
		b[i] = u[i]
	}
	return fmt.Sprintf(strFormat, b...)
}

// MarshalJSON implements json.Marshaler.
func (u GUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON implements json.Unmarshaler. Besides a plain string it
// accepts the {"GUID": "..."} object form.
func (u *GUID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		j := make(map[string]string)
		if err := json.Unmarshal(b, &j); err != nil {
			return err
		}
		s = j["GUID"]
	}
	g, err := Parse(s)
	if err != nil {
		return err
	}
	copy(u[:], g[:])
	return nil
}
