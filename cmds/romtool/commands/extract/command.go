// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"context"
	"fmt"

	"github.com/linuxboot/pcirom/cmds/romtool/commands"
	"github.com/linuxboot/pcirom/pkg/romsource"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	OutputDir    string `short:"o" long:"output" description:"directory to write the images to" required:"true"`
	BlankSerials bool   `long:"blank-ppid" description:"blank serial numbers in the written images"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "writes every image of the chain to a file"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Images are written as NN.bin, NN being the position in the chain.\n" +
		"Images without content are skipped."
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

	img, err := commands.DecodeROM(context.Background(), path, cmd.BlankSerials)
	if err != nil {
		return err
	}

	paths, err := romsource.Extract(cmd.OutputDir, img)
	for _, p := range paths {
		fmt.Println(p)
	}
	if err != nil {
		return fmt.Errorf("unable to extract to '%s': %w", cmd.OutputDir, err)
	}
	return nil
}
