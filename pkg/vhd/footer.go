package vhd

import (
	"encoding/binary"
	"fmt"
)

// FooterSize is the fixed on-disk size of a VHD footer, in bytes.
const FooterSize = 512

// DiskTypeFixed is the only disk_type this package creates or honors; dynamic
// and differencing disks are out of scope (see package doc).
const DiskTypeFixed = 2

// FileFormatVersion1 is the file_format_version value for VHD spec 1.0.
const FileFormatVersion1 = 0x00010000

// FixedDataOffset is the data_offset sentinel that marks a fixed-size disk.
const FixedDataOffset = 0xFFFFFFFFFFFFFFFF

// Footer mirrors the 512-byte VHD footer described by the Microsoft/Connectix
// specification. Every multi-byte field is held in host-native byte order;
// byte order only enters the picture during Encode/Decode, which keeps the
// in-memory representation always valid regardless of how many times it has
// been written to or read from disk.
type Footer struct {
	Cookie             [8]byte
	Features           uint32
	FileFormatVersion  uint32
	DataOffset         uint64
	Timestamp          uint32
	CreatorApplication [4]byte
	CreatorVersion     uint32
	CreatorHostOS      uint32
	OriginalSize       uint64
	CurrentSize        uint64
	DiskGeometry       uint32
	DiskType           uint32
	Checksum           uint32
	UniqueID           [16]byte
	SavedState         byte
	Reserved           [427]byte
}

// offsets of each field within the serialized 512-byte footer, kept as named
// constants rather than relying on struct layout so Encode/Decode remain
// correct even if the field order above is ever rearranged.
const (
	offCookie             = 0
	offFeatures           = 8
	offFileFormatVersion  = 12
	offDataOffset         = 16
	offTimestamp          = 24
	offCreatorApplication = 28
	offCreatorVersion     = 32
	offCreatorHostOS      = 36
	offOriginalSize       = 40
	offCurrentSize        = 48
	offDiskGeometry       = 56
	offDiskType           = 60
	offChecksum           = 64
	offUniqueID           = 68
	offSavedState         = 84
	offReserved           = 85
)

// hostLittleEndian reports whether the running process's native integer
// representation is little-endian. Encode/Decode use it together with
// swap32/swap64 to produce the on-disk big-endian layout regardless of host
// architecture.
var hostLittleEndian = detectHostLittleEndian()

func detectHostLittleEndian() bool {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], 0x01020304)
	return buf[0] == 0x04
}

func putBigEndian32(b []byte, v uint32) {
	if hostLittleEndian {
		v = swap32(v)
	}
	binary.NativeEndian.PutUint32(b, v)
}

func getBigEndian32(b []byte) uint32 {
	v := binary.NativeEndian.Uint32(b)
	if hostLittleEndian {
		v = swap32(v)
	}
	return v
}

func putBigEndian64(b []byte, v uint64) {
	if hostLittleEndian {
		v = swap64(v)
	}
	binary.NativeEndian.PutUint64(b, v)
}

func getBigEndian64(b []byte) uint64 {
	v := binary.NativeEndian.Uint64(b)
	if hostLittleEndian {
		v = swap64(v)
	}
	return v
}

// Encode serializes f into its 512-byte on-disk big-endian representation.
// It never mutates f.
func (f *Footer) Encode() [FooterSize]byte {
	var buf [FooterSize]byte

	copy(buf[offCookie:offCookie+8], f.Cookie[:])
	putBigEndian32(buf[offFeatures:], f.Features)
	putBigEndian32(buf[offFileFormatVersion:], f.FileFormatVersion)
	putBigEndian64(buf[offDataOffset:], f.DataOffset)
	putBigEndian32(buf[offTimestamp:], f.Timestamp)
	copy(buf[offCreatorApplication:offCreatorApplication+4], f.CreatorApplication[:])
	putBigEndian32(buf[offCreatorVersion:], f.CreatorVersion)
	putBigEndian32(buf[offCreatorHostOS:], f.CreatorHostOS)
	putBigEndian64(buf[offOriginalSize:], f.OriginalSize)
	putBigEndian64(buf[offCurrentSize:], f.CurrentSize)
	putBigEndian32(buf[offDiskGeometry:], f.DiskGeometry)
	putBigEndian32(buf[offDiskType:], f.DiskType)
	putBigEndian32(buf[offChecksum:], f.Checksum)
	copy(buf[offUniqueID:offUniqueID+16], f.UniqueID[:])
	buf[offSavedState] = f.SavedState
	copy(buf[offReserved:], f.Reserved[:])

	return buf
}

// Decode parses a 512-byte big-endian on-disk footer into host-native form.
// It fails with ErrMalformedFooter if data is not exactly FooterSize bytes.
func Decode(data []byte) (*Footer, error) {
	if len(data) != FooterSize {
		return nil, fmt.Errorf("vhd: decode footer: %w: expected %d bytes, got %d", ErrMalformedFooter, FooterSize, len(data))
	}

	f := &Footer{}
	copy(f.Cookie[:], data[offCookie:offCookie+8])
	f.Features = getBigEndian32(data[offFeatures:])
	f.FileFormatVersion = getBigEndian32(data[offFileFormatVersion:])
	f.DataOffset = getBigEndian64(data[offDataOffset:])
	f.Timestamp = getBigEndian32(data[offTimestamp:])
	copy(f.CreatorApplication[:], data[offCreatorApplication:offCreatorApplication+4])
	f.CreatorVersion = getBigEndian32(data[offCreatorVersion:])
	f.CreatorHostOS = getBigEndian32(data[offCreatorHostOS:])
	f.OriginalSize = getBigEndian64(data[offOriginalSize:])
	f.CurrentSize = getBigEndian64(data[offCurrentSize:])
	f.DiskGeometry = getBigEndian32(data[offDiskGeometry:])
	f.DiskType = getBigEndian32(data[offDiskType:])
	f.Checksum = getBigEndian32(data[offChecksum:])
	copy(f.UniqueID[:], data[offUniqueID:offUniqueID+16])
	f.SavedState = data[offSavedState]
	copy(f.Reserved[:], data[offReserved:])

	return f, nil
}

// Checksum computes the VHD footer checksum: the one's complement of the
// unsigned sum of every byte of the serialized footer with the checksum
// field itself treated as zero. It does not mutate f.
func Checksum(f *Footer) uint32 {
	saved := f.Checksum
	f.Checksum = 0
	buf := f.Encode()
	f.Checksum = saved

	var sum uint32
	for _, b := range buf {
		sum += uint32(b)
	}

	return ^sum
}

// Verify recomputes f's checksum and compares it to the stored value.
func Verify(f *Footer) error {
	if got, want := f.Checksum, Checksum(f); got != want {
		return fmt.Errorf("vhd: %w: footer checksum is %#08x, expected %#08x", ErrBadChecksum, got, want)
	}
	return nil
}
