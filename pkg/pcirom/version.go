// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"strings"

	"golang.org/x/text/encoding/charmap"

	pkgbytes "github.com/linuxboot/pcirom/pkg/bytes"
	"github.com/linuxboot/pcirom/pkg/log"
)

const (
	// whitespace trimmed around a version, as isspace() in the C locale.
	versionSpace = " \t\n\v\f\r"
	// a version ends at the first of these.
	versionStop = "\r\n "

	nvidiaVersionOffset = 0x013d
	nvidiaVBIOSOffset   = 0xfa
)

// FindVersion extracts the firmware version from hdr, which should be the
// first image of the chain. Each kind tries its patterns in order and the
// first one found decides the result. found is true whenever a pattern
// matched, even if the text after it is empty.
func FindVersion(kind Kind, hdr *Header) (string, bool) {
	var raw []byte
	var ok bool
	switch kind {
	case KindPCI:
		raw, ok = findVersionPCI(hdr)
	case KindNvidia:
		raw, ok = findVersionNvidia(hdr)
	case KindIntel:
		raw, ok = findVersionIntel(hdr)
	case KindATI:
		raw, ok = findVersionATI(hdr)
	}
	if !ok {
		return "", false
	}
	return cleanVersion(raw), true
}

// textAt returns the NUL terminated text starting at off of Raw. An offset
// at or past the end of Raw gives no text, so a pattern matched right at
// the end of the image yields an empty version.
func (h *Header) textAt(off int) []byte {
	if off < 0 || off >= len(h.Raw) {
		return nil
	}
	b := h.Raw[off:]
	return b[:pkgbytes.IndexAny(b, 0)]
}

// textAfter searches needle and returns the text skip bytes after the
// start of the match.
func (h *Header) textAfter(needle string, skip int) ([]byte, bool) {
	idx, ok := h.FindString(needle)
	if !ok {
		return nil, false
	}
	return h.textAt(idx + skip), true
}

func findVersionPCI(h *Header) ([]byte, bool) {
	// ARC storage
	if !hasAt(h.Reserved[:], 0, "\x00\x00ARC") {
		return nil, false
	}
	return h.textAfter("BIOS: ", 6)
}

func findVersionNvidia(h *Header) ([]byte, bool) {
	// static location for some firmware
	if h.hasAt(nvidiaVersionOffset, "Version ") {
		return h.textAt(nvidiaVersionOffset + 8), true
	}
	if v, ok := h.textAfter("Version ", 8); ok {
		return v, true
	}
	// misspelled in some images
	if v, ok := h.textAfter("Vension:", 8); ok {
		return v, true
	}
	if v, ok := h.textAfter("Version", 7); ok {
		return v, true
	}
	if h.hasAt(nvidiaVBIOSOffset, "VBIOS Ver") {
		return h.textAt(nvidiaVBIOSOffset + 9), true
	}
	return nil, false
}

func findVersionIntel(h *Header) ([]byte, bool) {
	// 2175_RYan PC 14.34  06/06/2013  21:27:53
	if v, ok := h.textAfter("Build Number:", 14); ok {
		for _, word := range strings.Split(string(v), " ") {
			if strings.Contains(word, ".") {
				return []byte(word), true
			}
		}
		log.Debugf("no dotted word after Build Number: %q", v)
	}
	return h.textAfter("VBIOS ", 6)
}

func findVersionATI(h *Header) ([]byte, bool) {
	if v, ok := h.textAfter(" VER0", 4); ok {
		return v, true
	}
	return h.textAfter(" VR", 4)
}

// cleanVersion trims whitespace around raw and cuts it at the first line
// break or space. Bytes are interpreted as ISO 8859-1.
func cleanVersion(raw []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw
	}
	s := strings.Trim(string(decoded), versionSpace)
	if idx := strings.IndexAny(s, versionStop); idx >= 0 {
		s = s[:idx]
	}
	return s
}
