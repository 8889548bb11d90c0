// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// romsum prints the fingerprint of PCI option ROMs, one line per file:
//
//     FINGERPRINT  KIND  VERSION  FILE
//
// Serial numbers are blanked before fingerprinting unless --keep-ppid is
// given, so boards of the same model print the same fingerprint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/linuxboot/pcirom/pkg/log"
)

var (
	jobs     = flag.IntP("jobs", "j", runtime.NumCPU(), "number of ROMs decoded in parallel")
	keepPPID = flag.Bool("keep-ppid", false, "do not blank serial numbers")
	debug    = flag.BoolP("debug", "d", false, "print decoder diagnostics")
)

func main() {
	flag.Parse()

	a := flag.Args()
	if len(a) == 0 {
		log.Fatalf("Usage: romsum [-j N] [--keep-ppid] <rom-file>...")
	}
	if *debug {
		if err := log.SetLevel("debug"); err != nil {
			log.Fatalf("%v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	failed := false
	for _, res := range sumFiles(ctx, a, *jobs, !*keepPPID) {
		if res.Err != nil {
			log.Errorf("%v", res.Err)
			failed = true
			continue
		}
		fmt.Println(res)
	}
	if failed {
		os.Exit(1)
	}
}
