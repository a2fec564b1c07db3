package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vhdio/vhd/pkg/vhd"
)

var readCmd = &cobra.Command{
	Use:   "read PATH SECTOR",
	Short: "Read one sector from a VHD file and print it to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		sector, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sector index %q: %w", args[1], err)
		}

		d, err := vhd.Open(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		defer d.Close()

		if _, err := d.Seek(sector, io.SeekStart); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		buf := make([]byte, vhd.SectorSize)
		if _, err := d.Read(buf, 1); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		_, err = os.Stdout.Write(buf)
		return err
	},
}
