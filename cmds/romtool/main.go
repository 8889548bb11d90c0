// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// romtool inspects PCI option ROM images.
//
// Synopsis:
//     romtool [-d] info [--format=text|table|json] [--blank-ppid] [--validate] ROM
//     romtool [-d] extract -o DIR [--blank-ppid] ROM
//     romtool [-d] guid (ROM | --id VVVV:DDDD)
//
// ROM is a file, a sysfs ROM node (e.g. /sys/bus/pci/devices/0000:01:00.0/rom)
// or "-" for standard input. xz, zstd, gzip and lz4 compressed dumps are
// accepted.
//
// An example:
//     romtool info --format=table /sys/bus/pci/devices/0000:01:00.0/rom
//     romtool extract -o /tmp/vbios vbios.rom.xz
//     romtool info --format=json vbios.rom | jq -r .Fingerprint
//
// Description:
//     info:    Print kind, version, fingerprint and the image chain
//     extract: Write every image of the chain to DIR/NN.bin
//     guid:    Print the stable GUID of the vendor and device id
package main

import (
	"github.com/jessevdk/go-flags"

	"github.com/linuxboot/pcirom/cmds/romtool/commands"
	"github.com/linuxboot/pcirom/cmds/romtool/commands/extract"
	"github.com/linuxboot/pcirom/cmds/romtool/commands/guid"
	"github.com/linuxboot/pcirom/cmds/romtool/commands/info"
	"github.com/linuxboot/pcirom/pkg/log"
)

var (
	knownCommands = map[string]commands.Command{
		"info":    &info.Command{},
		"extract": &extract.Command{},
		"guid":    &guid.Command{},
	}
)

var globalOpts struct {
	Debug bool `short:"d" long:"debug" description:"print decoder diagnostics"`
}

func main() {
	flagsParser := flags.NewParser(&globalOpts, flags.Default)
	for commandName, command := range knownCommands {
		_, err := flagsParser.AddCommand(commandName, command.ShortDescription(), command.LongDescription(), command)
		if err != nil {
			panic(err)
		}
	}
	flagsParser.CommandHandler = func(command flags.Commander, args []string) error {
		if globalOpts.Debug {
			if err := log.SetLevel("debug"); err != nil {
				return err
			}
		}
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}

	// parse arguments and execute the appropriate command
	if _, err := flagsParser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		log.Fatalf("%v", err)
	}
}
