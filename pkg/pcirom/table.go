// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcirom

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders the images of the chain as a table.
func (img *Image) Table() string {
	t := table.NewWriter()
	t.SetTitle("%s option ROM %s, version %q", img.Kind, img.ID(), img.Version)
	t.AppendHeader(table.Row{
		"#",
		"Offset",
		"Size",
		"Vendor",
		"Device",
		"Class",
		"Code Type",
		"Last",
		"Checksum",
	})
	for idx, hdr := range img.Headers {
		row := table.Row{
			idx,
			fmt.Sprintf("%#06x", hdr.Offset),
			humanize.IBytes(uint64(hdr.RomLen)),
		}
		if hdr.HasData {
			row = append(row,
				fmt.Sprintf("%#04x", hdr.Data.VendorID),
				fmt.Sprintf("%#04x", hdr.Data.DeviceID),
				fmt.Sprintf("%#06x", hdr.Data.ClassCode),
				hdr.Data.CodeType.Name(),
			)
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		row = append(row, yesNo(hdr.IsLast()), hdr.ChecksumStatus())
		t.AppendRow(row)
	}
	return t.Render()
}
