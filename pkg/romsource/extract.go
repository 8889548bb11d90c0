// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package romsource

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linuxboot/pcirom/pkg/log"
	"github.com/linuxboot/pcirom/pkg/pcirom"
)

// Extract writes every image of img with a non-zero length to dir as
// NN.bin, NN being the index in the chain. It returns the paths written.
func Extract(dir string, img *pcirom.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for idx, hdr := range img.Headers {
		if hdr.RomLen == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%02d.bin", idx))
		log.Debugf("dumping ROM #%d at %#04x [%#02x] to %s", idx, hdr.Offset, hdr.RomLen, path)
		if err := os.WriteFile(path, hdr.Raw[:hdr.RomLen], 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
