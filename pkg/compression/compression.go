// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compression implements reading and writing of compressed files.
//
// Option ROM dumps are often archived compressed. The package recognizes
// the container formats by their magic bytes so tools can accept either.
package compression

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned by Get for names no Compressor answers to.
var ErrUnknownFormat = errors.New("unknown compression format")

// Compressor defines a single compression scheme (such as XZ).
type Compressor interface {
	// Name is typically the name of a class.
	Name() string

	// Magic returns the bytes every encoded stream starts with.
	Magic() []byte

	// Decode and Encode obey "x == Decode(Encode(x))".
	Decode(encodedData []byte) ([]byte, error)
	Encode(decodedData []byte) ([]byte, error)
}

// Compressors lists all supported schemes.
var Compressors = []Compressor{
	&XZ{},
	&Zstd{},
	&Gzip{},
	&LZ4{},
}

// Detect returns the Compressor whose magic starts b, or nil if b does
// not look compressed.
func Detect(b []byte) Compressor {
	for _, c := range Compressors {
		if bytes.HasPrefix(b, c.Magic()) {
			return c
		}
	}
	return nil
}

// Get returns the Compressor with the given name, case-insensitively.
func Get(name string) (Compressor, error) {
	for _, c := range Compressors {
		if bytes.EqualFold([]byte(c.Name()), []byte(name)) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Decompress decodes b if Detect recognizes it and returns it unchanged
// otherwise. The returned Compressor is nil in the latter case.
func Decompress(b []byte) ([]byte, Compressor, error) {
	c := Detect(b)
	if c == nil {
		return b, nil, nil
	}
	decoded, err := c.Decode(b)
	if err != nil {
		return nil, c, fmt.Errorf("%s: %w", c.Name(), err)
	}
	return decoded, c, nil
}
