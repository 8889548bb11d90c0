// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pcirom decodes PCI expansion (option) ROM images: the chain of
// images, the vendor kind, the firmware version and a fingerprint of the
// content. Serial numbers embedded by some vendors can be blanked while
// keeping every image's checksum valid.
package pcirom

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"

	pkgbytes "github.com/linuxboot/pcirom/pkg/bytes"
	"github.com/linuxboot/pcirom/pkg/log"
)

// MinSize is the smallest buffer Decode accepts.
const MinSize = 1024

// Image is a decoded option ROM.
type Image struct {
	// Headers in chain order.
	Headers  []*Header
	Kind     Kind
	VendorID uint16
	DeviceID uint16
	// Version is empty if it could not be found, or if the text following
	// the matched pattern is blank.
	Version     string
	Fingerprint [FingerprintSize]byte
	// BlankedSerials counts the bytes cleared by serial number blanking.
	BlankedSerials int
}

type decodeConfig struct {
	blankSerials bool
}

// Option configures Decode.
type Option func(*decodeConfig)

// WithBlankSerials enables blanking of serial numbers before the image is
// fingerprinted.
func WithBlankSerials(blank bool) Option {
	return func(c *decodeConfig) {
		c.blankSerials = blank
	}
}

// Decode decodes the option ROM in buf. buf is not modified, every image
// keeps its own copy of its bytes.
//
// If no version pattern matches the error wraps ErrVersionNotFound and the
// otherwise complete Image is returned along with it. A matched pattern
// followed by blank text yields an empty Version and no error.
func Decode(buf []byte, opts ...Option) (*Image, error) {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(buf) < MinSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(buf))
	}

	headers, err := Walk(buf)
	if err != nil {
		return nil, err
	}
	for _, hdr := range headers {
		log.Debugf("%s", hdr.Summary())
	}

	kind, err := Classify(buf, headers)
	if err != nil {
		return nil, err
	}

	first := headers[0]
	img := &Image{
		Headers:  headers,
		Kind:     kind,
		VendorID: first.Data.VendorID,
		DeviceID: first.Data.DeviceID,
	}

	version, found := FindVersion(kind, first)

	if cfg.blankSerials {
		img.BlankedSerials = BlankSerialNumbers(kind, headers)
	}
	img.Fingerprint = Fingerprint(headers)

	if !found {
		return img, fmt.Errorf("%w: kind %s, id %s", ErrVersionNotFound, kind, img.ID())
	}
	img.Version = version
	return img, nil
}

// FingerprintString returns the fingerprint as 40 lowercase hex digits.
func (img *Image) FingerprintString() string {
	return hex.EncodeToString(img.Fingerprint[:])
}

// ID returns the vendor and device id as used for stable identifiers.
func (img *Image) ID() string {
	return fmt.Sprintf("0x%04x:0x%04x", img.VendorID, img.DeviceID)
}

// Ranges returns the byte ranges of all images in the source buffer.
func (img *Image) Ranges() pkgbytes.Ranges {
	result := make(pkgbytes.Ranges, 0, len(img.Headers))
	for _, hdr := range img.Headers {
		result = append(result, hdr.Range())
	}
	return result
}

// Validate checks the checksum of every image whose PCI data allows to
// check it.
func (img *Image) Validate() error {
	var result *multierror.Error
	for idx, hdr := range img.Headers {
		if !hdr.checksumCheckable() {
			continue
		}
		if sum := hdr.Checksum(); sum != 0 {
			result = multierror.Append(result, &ErrChecksum{Index: idx, Offset: hdr.Offset, Sum: sum})
		}
	}
	if overlaps := img.Ranges().Overlapping(); len(overlaps) != 0 {
		result = multierror.Append(result, fmt.Errorf("overlapping images %v", overlaps))
	}
	return result.ErrorOrNil()
}

// Summary prints a multi-line summary of the image.
func (img *Image) Summary() string {
	s := fmt.Sprintf("Kind        : %s\n", img.Kind)
	s += fmt.Sprintf("Vendor      : %#04x\n", img.VendorID)
	s += fmt.Sprintf("Device      : %#04x\n", img.DeviceID)
	s += fmt.Sprintf("Version     : %s\n", img.Version)
	s += fmt.Sprintf("Fingerprint : %s\n", img.FingerprintString())
	s += fmt.Sprintf("Images      : %d\n", len(img.Headers))
	if img.BlankedSerials > 0 {
		s += fmt.Sprintf("Blanked     : %d bytes\n", img.BlankedSerials)
	}
	for _, hdr := range img.Headers {
		s += hdr.Summary()
	}
	return s
}

// MarshalJSON implements json.Marshaler.
func (img *Image) MarshalJSON() ([]byte, error) {
	type headerJSON struct {
		*Header
		Checksum     uint8
		Certificates []CertificateSegment `json:",omitempty"`
	}
	headers := make([]headerJSON, 0, len(img.Headers))
	for _, hdr := range img.Headers {
		headers = append(headers, headerJSON{
			Header:       hdr,
			Checksum:     hdr.Checksum(),
			Certificates: hdr.Certificates(),
		})
	}
	return json.Marshal(struct {
		Kind           Kind
		VendorID       uint16
		DeviceID       uint16
		Version        string
		Fingerprint    string
		BlankedSerials int
		Headers        []headerJSON
	}{
		Kind:           img.Kind,
		VendorID:       img.VendorID,
		DeviceID:       img.DeviceID,
		Version:        img.Version,
		Fingerprint:    img.FingerprintString(),
		BlankedSerials: img.BlankedSerials,
		Headers:        headers,
	})
}
