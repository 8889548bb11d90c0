// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/linuxboot/pcirom/pkg/pcirom"
	"github.com/linuxboot/pcirom/pkg/romsource"
)

type result struct {
	Path  string
	Image *pcirom.Image
	Err   error
}

func (r result) String() string {
	version := r.Image.Version
	if version == "" {
		version = "-"
	}
	return fmt.Sprintf("%s  %s  %s  %s", r.Image.FingerprintString(), r.Image.Kind, version, r.Path)
}

func sumFile(ctx context.Context, path string, blank bool) result {
	b, err := romsource.Load(ctx, path)
	if err != nil {
		return result{Path: path, Err: err}
	}
	img, err := pcirom.Decode(b, pcirom.WithBlankSerials(blank))
	if err != nil && !errors.Is(err, pcirom.ErrVersionNotFound) {
		return result{Path: path, Err: fmt.Errorf("%s: %w", path, err)}
	}
	return result{Path: path, Image: img}
}

// sumFiles decodes paths with up to jobs workers. Results keep the order
// of paths.
func sumFiles(ctx context.Context, paths []string, jobs int, blank bool) []result {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]result, len(paths))
	indexes := make(chan int)

	var wg sync.WaitGroup
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx] = sumFile(ctx, paths[idx], blank)
			}
		}()
	}
	for idx := range paths {
		indexes <- idx
	}
	close(indexes)
	wg.Wait()
	return results
}
