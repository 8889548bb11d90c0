// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/linuxboot/pcirom/pkg/log"
	"github.com/linuxboot/pcirom/pkg/pcirom"
	"github.com/linuxboot/pcirom/pkg/romsource"
)

// StdinPath selects standard input as ROM source.
const StdinPath = "-"

// ROMArg extracts the single ROM path from the arguments left by a verb.
func ROMArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrArgs{Err: fmt.Errorf("no ROM given")}
	case 1:
		return args[0], nil
	}
	return "", ErrArgs{Err: fmt.Errorf("there are extra arguments")}
}

// LoadROM reads the ROM at path, or standard input for StdinPath.
func LoadROM(ctx context.Context, path string) ([]byte, error) {
	if path == StdinPath {
		// pipes deliver in small chunks
		return romsource.ReadFrom(ctx, os.Stdin, romsource.WithShortReadLimit(-1))
	}
	return romsource.Load(ctx, path)
}

// DecodeROM loads and decodes the ROM at path. A missing version is only
// reported as a warning.
func DecodeROM(ctx context.Context, path string, blankSerials bool) (*pcirom.Image, error) {
	b, err := LoadROM(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the ROM '%s': %w", path, err)
	}
	img, err := pcirom.Decode(b, pcirom.WithBlankSerials(blankSerials))
	switch {
	case errors.Is(err, pcirom.ErrVersionNotFound):
		log.Warnf("%s: %v", path, err)
	case err != nil:
		return nil, fmt.Errorf("unable to decode the ROM '%s': %w", path, err)
	}
	return img, nil
}
