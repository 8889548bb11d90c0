// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"crypto/sha1"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	hdr, ok := NewHeader(fixChecksum(newTestROM(1, 1, 2)), 0)
	require.True(t, ok)
	require.Zero(t, hdr.Checksum())
	require.True(t, hdr.ChecksumValid())
	require.True(t, strings.HasSuffix(hdr.ChecksumStatus(), "[valid]"), hdr.ChecksumStatus())

	hdr.Raw[0x100]++
	require.Equal(t, uint8(1), hdr.Checksum())
	require.False(t, hdr.ChecksumValid())
	require.Contains(t, hdr.ChecksumStatus(), "failed, got 0x01")

	hdr.Data.ImageLen = 0
	require.Equal(t, "0x?? [unknown]", hdr.ChecksumStatus())
	hdr.Data.ImageLen = 1024
	require.Equal(t, "0x?? [unknown]", hdr.ChecksumStatus())
}

func TestFingerprint(t *testing.T) {
	a, ok := NewHeader(newTestROM(1, 1, 1), 0)
	require.True(t, ok)
	b, ok := NewHeader(newTestROM(2, 1, 2), 0)
	require.True(t, ok)

	want := sha1.Sum(append(append([]byte(nil), a.Raw...), b.Raw...))
	require.Equal(t, want, Fingerprint([]*Header{a, b}))
	require.NotEqual(t, want, Fingerprint([]*Header{b, a}))
	require.Equal(t, sha1.Sum(nil), Fingerprint(nil))
}
