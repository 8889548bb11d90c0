// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package romsource acquires option ROM bytes from files, devices and
// streams, and writes decoded images back out.
package romsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/linuxboot/pcirom/pkg/compression"
	"github.com/linuxboot/pcirom/pkg/log"
	"github.com/linuxboot/pcirom/pkg/pcirom"
)

const (
	// MinSize is the smallest ROM accepted.
	MinSize = pcirom.MinSize
	// MaxSize is the default read buffer size. Longer sources are
	// truncated.
	MaxSize = 0x400000
	// MaxShortReads bounds the reads following the first one. PCI
	// devices which hand out the ROM in small chunks are given up on.
	MaxShortReads = 16

	sysfsRoot = "/sys/"
)

// ErrNotResponding is returned if a source needs more than MaxShortReads
// additional reads to fill the buffer. The read reporting the end of the
// data does not count.
var ErrNotResponding = errors.New("firmware not fulfilling requests")

type config struct {
	maxSize       int
	maxShortReads int
	decompress    bool
	enable        bool
}

// Option configures Load and ReadFrom.
type Option func(*config)

// WithMaxSize changes the size of the read buffer.
func WithMaxSize(n int) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithShortReadLimit changes how many reads may follow the first one. A
// negative limit disables the check, which suits pipes.
func WithShortReadLimit(n int) Option {
	return func(c *config) {
		c.maxShortReads = n
	}
}

// WithDecompress controls whether compressed dumps are decoded.
func WithDecompress(decompress bool) Option {
	return func(c *config) {
		c.decompress = decompress
	}
}

// WithEnable controls whether Load enables the ROM BAR of sysfs devices
// before reading.
func WithEnable(enable bool) Option {
	return func(c *config) {
		c.enable = enable
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		maxSize:       MaxSize,
		maxShortReads: MaxShortReads,
		decompress:    true,
		enable:        true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ReadFrom reads a ROM from r. ctx is checked between reads.
func ReadFrom(ctx context.Context, r io.Reader, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	if cfg.maxSize < MinSize {
		return nil, fmt.Errorf("buffer size %d below %d", cfg.maxSize, MinSize)
	}

	buf := make([]byte, cfg.maxSize)
	sz := 0
	// reads counts the reads after the first one, except a final empty one
	for reads := 0; sz < len(buf); reads++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf[sz:])
		if n == 0 && errors.Is(err, io.EOF) {
			break
		}
		if reads > 0 {
			log.Debugf("ROM returned %#04x bytes, adding %#04x...", sz, n)
			if cfg.maxShortReads >= 0 && reads > cfg.maxShortReads {
				return nil, fmt.Errorf("%w: %d additional reads for %s", ErrNotResponding, reads, humanize.IBytes(uint64(sz+n)))
			}
		}
		sz += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	log.Debugf("ROM buffer filled %dkb/%dkb", sz/0x400, len(buf)/0x400)
	data := buf[:sz]

	if cfg.decompress {
		decoded, c, err := compression.Decompress(data)
		if err != nil {
			return nil, err
		}
		if c != nil {
			log.Debugf("%s compressed ROM, %s decoded", c.Name(), humanize.IBytes(uint64(len(decoded))))
			if len(decoded) > cfg.maxSize {
				log.Warnf("truncating decompressed ROM to %s", humanize.IBytes(uint64(cfg.maxSize)))
				decoded = decoded[:cfg.maxSize]
			}
			data = decoded
		}
	}

	if len(data) < MinSize {
		return nil, fmt.Errorf("%w: %d bytes", pcirom.ErrTooSmall, len(data))
	}
	return data, nil
}

// Load reads the ROM at path. Device ROMs exported under /sys are enabled
// for reading first and disabled again afterwards.
func Load(ctx context.Context, path string, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	if cfg.enable && isSysfs(path) {
		if err := setEnabled(path, true); err != nil {
			return nil, fmt.Errorf("unable to enable ROM read of %s: %w", path, err)
		}
		defer func() {
			// the enable flag only drops on a fresh write
			if err := setEnabled(path, false); err != nil {
				log.Warnf("unable to disable ROM read of %s: %v", path, err)
			}
		}()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ReadFrom(ctx, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func isSysfs(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(abs+"/", sysfsRoot)
}

func setEnabled(path string, enable bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	v := "0"
	if enable {
		v = "1"
	}
	if _, err := f.WriteString(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
