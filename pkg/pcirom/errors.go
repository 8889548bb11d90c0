// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"errors"
	"fmt"
)

// Errors returned by Decode. They are wrapped with context, use errors.Is.
var (
	ErrTooSmall        = errors.New("firmware too small")
	ErrCorruptOverflow = errors.New("firmware corrupt (overflow)")
	ErrNoHeaderFound   = errors.New("failed to detect firmware header")
	ErrUnknownKind     = errors.New("failed to detect firmware kind")
	ErrVersionNotFound = errors.New("firmware version extractor not known")
)

// ErrChecksum describes a segment whose bytes do not add up to zero.
type ErrChecksum struct {
	Index  int
	Offset uint32
	Sum    uint8
}

// Error implements error.
func (err *ErrChecksum) Error() string {
	return fmt.Sprintf("header #%d at %#04x: checksum failed, got %#02x", err.Index, err.Offset, err.Sum)
}
