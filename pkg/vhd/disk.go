package vhd

import (
	"fmt"
	"io"
	"os"
)

// Disk is a handle to a fixed-size VHD backing file. It owns the underlying
// file descriptor and an in-memory copy of the decoded footer. A Disk must
// be used by one goroutine at a time; there is no internal synchronization.
//
// The footer may be read and mutated directly through the Footer method
// between calls -- such mutations are not durable until Commit succeeds.
type Disk struct {
	file   *os.File
	footer *Footer
	closed bool
}

// Open opens path as a VHD backing file, creating it if it does not already
// exist. If the file exists and is at least FooterSize bytes long, its
// footer is read and verified; a checksum mismatch or decode failure closes
// the handle and returns ErrBadChecksum or ErrMalformedFooter. An existing
// file shorter than FooterSize bytes is treated the same as a brand new
// file: the caller is expected to populate the footer (see Create) and
// commit it.
func Open(path string) (*Disk, error) {
	existing, err := regularFileExists(path)
	if err != nil {
		return nil, fmt.Errorf("vhd: open %s: %w: %v", path, ErrIO, err)
	}

	if !existing {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("vhd: create %s: %w: %v", path, ErrIO, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("vhd: create %s: %w: %v", path, ErrIO, err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("vhd: open %s: %w: %v", path, ErrIO, err)
	}

	d := &Disk{file: file, footer: &Footer{}}

	if existing {
		fi, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("vhd: stat %s: %w: %v", path, ErrIO, err)
		}

		if fi.Size() >= FooterSize {
			footer, err := ReadFooter(file)
			if err != nil {
				file.Close()
				return nil, err
			}

			if err := Verify(footer); err != nil {
				file.Close()
				return nil, err
			}

			d.footer = footer
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("vhd: seek %s: %w: %v", path, ErrIO, err)
	}

	return d, nil
}

func regularFileExists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !fi.Mode().IsRegular() {
		return false, fmt.Errorf("%s is not a regular file", path)
	}
	return true, nil
}

// ReadFooter seeks r to end-minus-FooterSize, reads FooterSize bytes, and
// decodes them. It fails with ErrTruncatedFile if r is shorter than
// FooterSize bytes.
func ReadFooter(r io.ReadSeeker) (*Footer, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("vhd: read footer: %w: %v", ErrIO, err)
	}

	if end < FooterSize {
		return nil, fmt.Errorf("vhd: read footer: file is %d bytes, shorter than the %d-byte footer: %w", end, FooterSize, ErrTruncatedFile)
	}

	if _, err := r.Seek(end-FooterSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("vhd: read footer: %w: %v", ErrIO, err)
	}

	buf := make([]byte, FooterSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("vhd: read footer: %w: %v", ErrIO, err)
	}

	return Decode(buf)
}

// Footer returns the disk's in-memory footer. Callers may mutate it
// directly; changes take effect on disk only after a successful Commit.
func (d *Disk) Footer() *Footer {
	return d.footer
}

// CreateOptions customizes the fields Create populates on a fresh footer.
// Zero-valued fields fall back to the same defaults the Vinil reference CLI
// samples use.
type CreateOptions struct {
	CreatorApplication [4]byte
	CreatorHostOS      uint32
	Clock              Clock
	UUIDSource         UUIDSource
}

// creatorHostOSMac is the FourCC for "Mac " host OS, the default the Vinil
// create_vhd.c sample uses.
const creatorHostOSMac = 0x4D616320

// Create populates d's footer as a brand new fixed disk of the given size
// (which must be a non-negative multiple of 512) and commits it. size
// becomes both OriginalSize and CurrentSize.
func (d *Disk) Create(size int64, opts CreateOptions) error {
	if size < 0 || size%512 != 0 {
		return fmt.Errorf("vhd: create: size %d must be a non-negative multiple of 512: %w", size, ErrInvalidArgument)
	}

	clock := opts.Clock
	if clock == nil {
		clock = Now
	}
	uuidSource := opts.UUIDSource
	if uuidSource == nil {
		uuidSource = NewUUID
	}

	creatorApp := opts.CreatorApplication
	if creatorApp == ([4]byte{}) {
		copy(creatorApp[:], "vnil")
	}
	hostOS := opts.CreatorHostOS
	if hostOS == 0 {
		hostOS = creatorHostOSMac
	}

	f := d.footer
	copy(f.Cookie[:], "conectix")
	f.Features = 0
	f.FileFormatVersion = FileFormatVersion1
	f.DataOffset = FixedDataOffset
	f.Timestamp = clock()
	f.CreatorApplication = creatorApp
	f.CreatorVersion = FileFormatVersion1
	f.CreatorHostOS = hostOS
	f.OriginalSize = uint64(size)
	f.CurrentSize = uint64(size)
	f.DiskGeometry = ComputeCHS(size)
	f.DiskType = DiskTypeFixed
	f.UniqueID = uuidSource()
	f.SavedState = 0
	f.Checksum = Checksum(f)

	return d.Commit()
}

// Close releases the disk's file handle. It is safe to call more than once.
func (d *Disk) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.footer = nil
	if err := d.file.Close(); err != nil {
		return fmt.Errorf("vhd: close: %w: %v", ErrIO, err)
	}
	return nil
}
