package vhd

import (
	"fmt"
	"io"
)

// Commit materializes the in-memory footer to the byte range
// [CurrentSize, CurrentSize+FooterSize) and resizes the file to exactly
// that length. The caller is responsible for setting CurrentSize to a
// multiple of 512 and recomputing Checksum (via Checksum/Verify) before
// calling Commit -- Commit does not touch either field itself, and it does
// not initialize the bytes of the data region.
//
// Unlike the original Vinil C implementation, which only ever grows the
// file by writing the footer at CurrentSize and never truncates stale
// trailing bytes left over from a previously larger CurrentSize, Commit
// truncates the file to CurrentSize+FooterSize so the on-disk length
// invariant always holds.
func (d *Disk) Commit() error {
	if d.closed {
		return ErrClosed
	}

	if _, err := d.file.Seek(int64(d.footer.CurrentSize), io.SeekStart); err != nil {
		return fmt.Errorf("vhd: commit: %w: %v", ErrIO, err)
	}

	buf := d.footer.Encode()
	if _, err := d.file.Write(buf[:]); err != nil {
		return fmt.Errorf("vhd: commit: %w: %v", ErrIO, err)
	}

	total := int64(d.footer.CurrentSize) + FooterSize
	if err := d.file.Truncate(total); err != nil {
		return fmt.Errorf("vhd: commit: %w: %v", ErrIO, err)
	}

	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("vhd: commit: %w: %v", ErrIO, err)
	}

	return nil
}
