package vhd

import (
	"fmt"
	"io"
)

// SectorSize is the addressable block size of the data region.
const SectorSize = 512

// Read reads count sectors (count*SectorSize bytes) into buf, which must be
// exactly that length, advancing the cursor by the bytes read. It fails with
// ErrOutOfBounds unless the read lies entirely within [0, CurrentSize).
func (d *Disk) Read(buf []byte, count int) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if count < 0 || len(buf) != count*SectorSize {
		return 0, fmt.Errorf("vhd: read: buffer must be exactly %d bytes for count %d: %w", count*SectorSize, count, ErrInvalidArgument)
	}
	if count == 0 {
		return 0, nil
	}

	pos, err := d.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("vhd: read: %w: %v", ErrIO, err)
	}

	if pos > int64(d.footer.CurrentSize)-int64(count)*SectorSize {
		return 0, fmt.Errorf("vhd: read: %w: sector %d, count %d exceeds data region", ErrOutOfBounds, pos/SectorSize, count)
	}

	n, err := io.ReadFull(d.file, buf)
	if err != nil {
		return n, fmt.Errorf("vhd: read: %w: %v", ErrIO, err)
	}

	return n, nil
}

// Write writes count sectors (count*SectorSize bytes) from buf, which must
// be exactly that length, advancing the cursor by the bytes written. It
// fails with ErrOutOfBounds unless the write lies entirely within
// [0, CurrentSize); writes never extend the file past the footer.
func (d *Disk) Write(buf []byte, count int) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if count < 0 || len(buf) != count*SectorSize {
		return 0, fmt.Errorf("vhd: write: buffer must be exactly %d bytes for count %d: %w", count*SectorSize, count, ErrInvalidArgument)
	}
	if count == 0 {
		return 0, nil
	}

	pos, err := d.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("vhd: write: %w: %v", ErrIO, err)
	}

	if pos > int64(d.footer.CurrentSize)-int64(count)*SectorSize {
		return 0, fmt.Errorf("vhd: write: %w: sector %d, count %d exceeds data region", ErrOutOfBounds, pos/SectorSize, count)
	}

	n, err := d.file.Write(buf)
	if err != nil {
		return n, fmt.Errorf("vhd: write: %w: %v", ErrIO, err)
	}
	if n != len(buf) {
		return n, fmt.Errorf("vhd: write: %w: short write (%d of %d bytes)", ErrIO, n, len(buf))
	}

	return n, nil
}

// Tell returns the current cursor position as a sector index.
func (d *Disk) Tell() (int64, error) {
	if d.closed {
		return 0, ErrClosed
	}

	pos, err := d.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("vhd: tell: %w: %v", ErrIO, err)
	}

	return pos / SectorSize, nil
}

// Seek moves the cursor to the sector-granular position described by offset
// and whence (io.SeekStart, io.SeekCurrent, or io.SeekEnd), returning the
// resulting sector index. io.SeekEnd positions the cursor at CurrentSize --
// the virtual end of the data region, immediately before the footer --
// rather than the physical end of the file; offset is ignored for
// io.SeekEnd.
func (d *Disk) Seek(offset int64, whence int) (int64, error) {
	if d.closed {
		return 0, ErrClosed
	}

	var pos int64
	var err error

	switch whence {
	case io.SeekStart, io.SeekCurrent:
		pos, err = d.file.Seek(offset*SectorSize, whence)
	case io.SeekEnd:
		pos, err = d.file.Seek(int64(d.footer.CurrentSize), io.SeekStart)
	default:
		return 0, fmt.Errorf("vhd: seek: %w: invalid whence %d", ErrInvalidArgument, whence)
	}

	if err != nil {
		return 0, fmt.Errorf("vhd: seek: %w: %v", ErrIO, err)
	}

	return pos / SectorSize, nil
}

// Flush flushes the underlying file to the OS (fsync). It does not commit
// footer changes -- call Commit for that.
func (d *Disk) Flush() error {
	if d.closed {
		return ErrClosed
	}
	if err := d.file.Sync(); err != nil {
		return fmt.Errorf("vhd: flush: %w: %v", ErrIO, err)
	}
	return nil
}
