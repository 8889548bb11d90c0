// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"bytes"
	"testing"
)

func TestFindVersion(t *testing.T) {
	arc := func(b []byte) { put(b, reservedOffset, "\x00\x00ARC") }
	for _, tc := range []struct {
		name   string
		kind   Kind
		modify func(b []byte)
		want   string
		found  bool
	}{
		{"pci_arc", KindPCI, func(b []byte) {
			arc(b)
			put(b, 0x100, "BIOS: 1.2.3\n")
		}, "1.2.3", true},
		{"pci_without_arc", KindPCI, func(b []byte) {
			put(b, 0x100, "BIOS: 1.2.3\n")
		}, "", false},
		{"pci_at_end_of_image", KindPCI, func(b []byte) {
			arc(b)
			put(b, 503, "BIOS: 7.1")
		}, "7.1", true},
		{"pci_nothing_after_match", KindPCI, func(b []byte) {
			arc(b)
			put(b, 506, "BIOS: ")
		}, "", true},
		{"nvidia_fixed_offset_first", KindNvidia, func(b []byte) {
			put(b, 0x60, "Version 9.9\x00")
			put(b, nvidiaVersionOffset, "Version 84.04.1F.00.01\x00")
		}, "84.04.1F.00.01", true},
		{"nvidia_search", KindNvidia, func(b []byte) {
			put(b, 0x60, "Version 70.10.2A\r\nCopyright")
		}, "70.10.2A", true},
		{"nvidia_misspelled", KindNvidia, func(b []byte) {
			put(b, 0x60, "Vension: 5.1\x00")
		}, "5.1", true},
		{"nvidia_bare", KindNvidia, func(b []byte) {
			put(b, 0x60, "Version5.2\x00")
		}, "5.2", true},
		{"nvidia_vbios", KindNvidia, func(b []byte) {
			put(b, nvidiaVBIOSOffset, "VBIOS Ver 1.0\x00")
		}, "1.0", true},
		{"nvidia_none", KindNvidia, func(b []byte) {}, "", false},
		{"intel_build_number", KindIntel, func(b []byte) {
			put(b, 0x60, "Build Number: 2175_RYan PC 14.34  06/06/2013  21:27:53\x00")
		}, "14.34", true},
		{"intel_build_number_newline", KindIntel, func(b []byte) {
			put(b, 0x60, "Build Number: 2175 PC 14.34\r\nsomething\x00")
		}, "14.34", true},
		{"intel_vbios_fallback", KindIntel, func(b []byte) {
			put(b, 0x60, "Build Number: 2175\x00")
			put(b, 0x100, "VBIOS 1019\n")
		}, "1019", true},
		{"intel_none", KindIntel, func(b []byte) {
			put(b, 0x60, "Build Number: 2175\x00")
		}, "", false},
		{"ati_ver", KindATI, func(b []byte) {
			put(b, 0x60, "113-C64901-100 VER015.012.000.000.000000\x00")
		}, "015.012.000.000.000000", true},
		{"ati_vr", KindATI, func(b []byte) {
			put(b, 0x60, "ATOMBIOSBK-AMD VR 1.2\x00")
		}, "1.2", true},
		{"ati_none", KindATI, func(b []byte) {}, "", false},
		{"unknown", KindUnknown, func(b []byte) {
			put(b, 0x60, "Version 1.0\x00")
		}, "", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := newTestROM(1, 1, 2)
			tc.modify(img)
			hdr, ok := NewHeader(img, 0)
			if !ok {
				t.Fatalf("NewHeader failed")
			}
			before := bytes.Clone(hdr.Raw)
			got, found := FindVersion(tc.kind, hdr)
			if found != tc.found {
				t.Fatalf("FindVersion found = %v; want %v", found, tc.found)
			}
			if got != tc.want {
				t.Errorf("FindVersion = %q; want %q", got, tc.want)
			}
			if !bytes.Equal(before, hdr.Raw) {
				t.Errorf("FindVersion modified the image")
			}
		})
	}
}

func TestCleanVersion(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"  1.2.3 extra", "1.2.3"},
		{"\t1.0\r\n", "1.0"},
		{"2.0\rjunk", "2.0"},
		{"\n\n", ""},
		{"\xe91.0", "é1.0"},
	} {
		if got := cleanVersion([]byte(tc.in)); got != tc.want {
			t.Errorf("cleanVersion(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
