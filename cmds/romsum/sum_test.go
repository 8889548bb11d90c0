// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linuxboot/pcirom/pkg/pcirom"
)

// writeROM writes an ATI ROM with a serial number to dir and returns its
// path.
func writeROM(t *testing.T, dir, name, serial string) string {
	b := make([]byte, 2*pcirom.BlockSize)
	b[0], b[1], b[2] = 0x55, 0xaa, 2
	binary.LittleEndian.PutUint16(b[0x18:], 0x40)
	copy(b[0x30:], " 761295520")
	d := b[0x40:]
	copy(d, "PCIR")
	binary.LittleEndian.PutUint16(d[0x04:], 0x1002)
	binary.LittleEndian.PutUint16(d[0x06:], 0x6818)
	binary.LittleEndian.PutUint16(d[0x0a:], 0x1c)
	binary.LittleEndian.PutUint16(d[0x10:], 2)
	d[0x15] = pcirom.LastImageIndicator
	copy(b[0x100:], "113-C64901-100 VER015.012.000.000.000000\x00")
	copy(b[0x200:], "PPID"+serial+"\xff")

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func TestSumFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 8; i++ {
		paths = append(paths, writeROM(t, dir, fmt.Sprintf("%d.rom", i), fmt.Sprintf("SN%08d", i)))
	}
	missing := filepath.Join(dir, "missing.rom")
	paths = append(paths, missing)

	results := sumFiles(context.Background(), paths, 3, true)
	require.Len(t, results, len(paths))
	for i, res := range results[:8] {
		require.NoError(t, res.Err)
		require.Equal(t, paths[i], res.Path)
		require.Equal(t, pcirom.KindATI, res.Image.Kind)
		// blanked serials give the same fingerprint
		require.Equal(t, results[0].Image.Fingerprint, res.Image.Fingerprint)
		require.True(t, strings.HasSuffix(res.String(), "  ati  015.012.000.000.000000  "+paths[i]), res.String())
	}
	require.Error(t, results[8].Err)
	require.Equal(t, missing, results[8].Path)

	kept := sumFiles(context.Background(), paths[:2], 0, false)
	require.NotEqual(t, kept[0].Image.Fingerprint, kept[1].Image.Fingerprint)
}
