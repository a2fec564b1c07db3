package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vhdio/vhd/pkg/vhd"
)

var writeCmd = &cobra.Command{
	Use:   "write PATH SECTOR CHAR",
	Short: "Write one sector filled with CHAR to a VHD file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		sector, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sector index %q: %w", args[1], err)
		}

		if len(args[2]) != 1 {
			return fmt.Errorf("CHAR must be a single character")
		}
		fill := args[2][0]

		d, err := vhd.Open(path)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		defer d.Close()

		if _, err := d.Seek(sector, io.SeekStart); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		buf := bytes.Repeat([]byte{fill}, vhd.SectorSize)
		if _, err := d.Write(buf, 1); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		return d.Flush()
	},
}
