// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func offsets(headers []*Header) []uint32 {
	var result []uint32
	for _, hdr := range headers {
		result = append(result, hdr.Offset)
	}
	return result
}

func TestWalk(t *testing.T) {
	t.Run("single_image_padding", func(t *testing.T) {
		headers, err := Walk(joinPadded(2048, newTestROM(1, 1, 2)))
		require.NoError(t, err)
		require.Equal(t, []uint32{0}, offsets(headers))
		require.False(t, headers[0].Synthetic)
	})
	t.Run("chain", func(t *testing.T) {
		first := newTestROM(1, 0x10de, 0x1)
		first[testDataPtr+0x15] = 0
		second := newTestROM(2, 0x10de, 0x2)
		headers, err := Walk(joinPadded(4096, first, second))
		require.NoError(t, err)
		require.Equal(t, []uint32{0, 512}, offsets(headers))
		require.Equal(t, uint16(0x2), headers[1].Data.DeviceID)
		require.Equal(t, uint32(1024), headers[1].RomLen)
	})
	t.Run("chain_continues_after_last_image", func(t *testing.T) {
		headers, err := Walk(joinPadded(4096, newTestROM(1, 1, 1), newTestROM(1, 1, 2)))
		require.NoError(t, err)
		require.Len(t, headers, 2)
		require.True(t, headers[0].IsLast())
	})
	t.Run("trailing_junk", func(t *testing.T) {
		buf := joinPadded(2048, newTestROM(1, 1, 2))
		buf[512] = 0x01
		headers, err := Walk(buf)
		require.NoError(t, err)
		require.Len(t, headers, 2)
		fake := headers[1]
		require.True(t, fake.Synthetic)
		require.Equal(t, uint32(512), fake.Offset)
		require.Equal(t, uint32(1536), fake.RomLen)
		require.Len(t, fake.Raw, 1536)
		require.Equal(t, uint8(LastImageIndicator), fake.Data.LastImage)
		require.Equal(t, fake.RomLen, fake.Data.ImageLen)
		require.Zero(t, fake.Data.VendorID)
		require.Zero(t, fake.Data.DeviceID)
		require.Equal(t, CodeTypeIntel86, fake.Data.CodeType)
		require.False(t, fake.HasData)
	})
	t.Run("junk_beyond_window_is_padding", func(t *testing.T) {
		buf := joinPadded(4096, newTestROM(1, 1, 2))
		// the window after the failed offset is as long as the offset
		buf[1024] = 0x01
		headers, err := Walk(buf)
		require.NoError(t, err)
		require.Len(t, headers, 1)
	})
	t.Run("ifr_skip", func(t *testing.T) {
		ifr := make([]byte, 0x100)
		put(ifr, 0, "NVGI")
		binary.BigEndian.PutUint16(ifr[ifrHeaderSizeOffset:], 0x100)
		headers, err := Walk(joinPadded(2048, ifr, newTestROM(1, 0x10de, 0x1)))
		require.NoError(t, err)
		require.Equal(t, []uint32{0x100}, offsets(headers))
		require.Equal(t, uint16(0x10de), headers[0].Data.VendorID)
	})
	t.Run("no_header", func(t *testing.T) {
		_, err := Walk(make([]byte, 2048))
		require.True(t, errors.Is(err, ErrNoHeaderFound), err)
	})
	t.Run("garbage_at_start", func(t *testing.T) {
		buf := make([]byte, 2048)
		for i := range buf {
			buf[i] = 0xff
		}
		_, err := Walk(buf)
		require.ErrorIs(t, err, ErrNoHeaderFound)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := Walk(nil)
		require.ErrorIs(t, err, ErrNoHeaderFound)
	})
}

func TestHasTrailingData(t *testing.T) {
	buf := make([]byte, 2048)
	require.False(t, hasTrailingData(buf, 512))
	require.False(t, hasTrailingData(buf, 0))
	require.False(t, hasTrailingData(buf, 4096))

	buf[1023] = 1
	require.True(t, hasTrailingData(buf, 512))
	require.False(t, hasTrailingData(buf, 256))

	buf[2047] = 1
	require.True(t, hasTrailingData(buf, 1536))
}

func TestIFRHeaderSize(t *testing.T) {
	buf := make([]byte, 0x20)
	require.Zero(t, ifrHeaderSize(buf))
	put(buf, 0, "NVGI")
	buf[0x15], buf[0x16] = 0x01, 0x02
	require.Equal(t, uint32(0x0102), ifrHeaderSize(buf))
	require.Zero(t, ifrHeaderSize(buf[:0x16]))
}
