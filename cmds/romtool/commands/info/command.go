// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linuxboot/pcirom/cmds/romtool/commands"
	"github.com/linuxboot/pcirom/pkg/guid"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	Format       *string `long:"format" description:"output format [text, table, json]"`
	BlankSerials bool    `long:"blank-ppid" description:"blank serial numbers before fingerprinting"`
	Validate     bool    `long:"validate" description:"fail if an image checksum is wrong"`
}

type Format int

const (
	FormatUndefined = Format(iota)
	FormatText
	FormatTable
	FormatJSON
)

func ParseFormat(s string) Format {
	switch strings.Trim(strings.ToLower(s), " ") {
	case "text":
		return FormatText
	case "table":
		return FormatTable
	case "json":
		return FormatJSON
	}
	return FormatUndefined
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints the option ROM"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Decodes the chain of images and prints kind, version and fingerprint.\n" +
		"The fingerprint of a ROM carrying a serial number only matches other\n" +
		"boards when --blank-ppid is given."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	path, err := commands.ROMArg(args)
	if err != nil {
		return err
	}

	format := FormatText
	if cmd.Format != nil {
		format = ParseFormat(*cmd.Format)
		if format == FormatUndefined {
			return commands.ErrArgs{Err: fmt.Errorf("unknown format '%s'", *cmd.Format)}
		}
	}

	img, err := commands.DecodeROM(context.Background(), path, cmd.BlankSerials)
	if err != nil {
		return err
	}

	switch format {
	case FormatText:
		fmt.Printf("GUID        : %s\n", guid.FromPCIID(img.VendorID, img.DeviceID))
		fmt.Printf("%s", img.Summary())
	case FormatTable:
		fmt.Printf("%s\n", img.Table())
	case FormatJSON:
		b, err := json.Marshal(img)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", b)
	}

	if cmd.Validate {
		if err := img.Validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
