// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package guid

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/linuxboot/pcirom/cmds/romtool/commands"
	pciguid "github.com/linuxboot/pcirom/pkg/guid"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	ID *string `long:"id" description:"vendor and device id as VVVV:DDDD instead of a ROM"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints the GUID of the device"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "The GUID is derived from the vendor and device id of the first image\n" +
		"and is the same for every ROM of a device."
}

// ParseID parses a "VVVV:DDDD" pair of hexadecimal ids, "0x" prefixes
// allowed.
func ParseID(s string) (uint16, uint16, error) {
	vendor, device, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("id '%s' is not VVVV:DDDD", s)
	}
	v, err := parseHex16(vendor)
	if err != nil {
		return 0, 0, fmt.Errorf("vendor id: %w", err)
	}
	d, err := parseHex16(device)
	if err != nil {
		return 0, 0, fmt.Errorf("device id: %w", err)
	}
	return v, d, nil
}

func parseHex16(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	n, err := strconv.ParseUint(s, 16, 16)
	return uint16(n), err
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if cmd.ID != nil {
		if len(args) != 0 {
			return commands.ErrArgs{Err: fmt.Errorf("either --id or a ROM")}
		}
		vendor, device, err := ParseID(*cmd.ID)
		if err != nil {
			return commands.ErrArgs{Err: err}
		}
		fmt.Println(pciguid.FromPCIID(vendor, device))
		return nil
	}

	path, err := commands.ROMArg(args)
	if err != nil {
		return err
	}
	img, err := commands.DecodeROM(context.Background(), path, false)
	if err != nil {
		return err
	}
	fmt.Println(pciguid.FromPCIID(img.VendorID, img.DeviceID))
	return nil
}
