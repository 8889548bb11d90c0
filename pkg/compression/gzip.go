// Copyright 2023 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

const gzipCompressionLevel = gzip.BestCompression

// Gzip implements Compressor for gzip members.
type Gzip struct{}

// Name returns the type of compression employed.
func (c *Gzip) Name() string {
	return "GZIP"
}

// Magic returns the gzip member magic.
func (c *Gzip) Magic() []byte {
	return []byte{0x1f, 0x8b}
}

// Decode decodes a byte slice of gzip data.
func (c *Gzip) Decode(encodedData []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(encodedData))
	if err != nil {
		return nil, err
	}
	decodedData, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return nil, err
	}
	return decodedData, nil
}

// Encode encodes a byte slice with gzip.
func (c *Gzip) Encode(decodedData []byte) ([]byte, error) {
	var encodedData bytes.Buffer
	w, err := gzip.NewWriterLevel(&encodedData, gzipCompressionLevel)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(decodedData)
	w.Close()
	if err != nil {
		return nil, err
	}
	return encodedData.Bytes(), nil
}
