package vhd

import (
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t uint32) Clock {
	return func() uint32 { return t }
}

func fixedUUID(b byte) UUIDSource {
	return func() [16]byte {
		var id [16]byte
		for i := range id {
			id[i] = b
		}
		return id
	}
}

func tempVHDPath(t *testing.T) string {
	dir, err := ioutil.TempDir("", "vhd-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "t.vhd")
}

func TestCreate4MiBFixedDisk(t *testing.T) {
	path := tempVHDPath(t)
	const size = 4 * 1024 * 1024

	d, err := Open(path)
	require.NoError(t, err)

	err = d.Create(size, CreateOptions{
		Clock:      fixedClock(0),
		UUIDSource: fixedUUID(0x0F),
	})
	require.NoError(t, err)
	require.NoError(t, d.Close())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, size+FooterSize, fi.Size())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	footer, err := ReadFooter(f)
	require.NoError(t, err)
	assert.NoError(t, Verify(footer))
	assert.Equal(t, "conectix", string(footer.Cookie[:]))
	assert.EqualValues(t, 0x00780411, footer.DiskGeometry)
	assert.EqualValues(t, DiskTypeFixed, footer.DiskType)
	assert.EqualValues(t, size, footer.CurrentSize)
	assert.EqualValues(t, size, footer.OriginalSize)
}

func TestBoundedWrite(t *testing.T) {
	path := tempVHDPath(t)
	const size = 4 * 1024 * 1024

	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Create(size, CreateOptions{Clock: fixedClock(0), UUIDSource: fixedUUID(1)}))

	lastSector := size/SectorSize - 1
	_, err = d.Seek(int64(lastSector), io.SeekStart)
	require.NoError(t, err)

	_, err = d.Write(make([]byte, SectorSize), 1)
	assert.NoError(t, err)

	_, err = d.Seek(int64(lastSector), io.SeekStart)
	require.NoError(t, err)
	_, err = d.Write(make([]byte, 2*SectorSize), 2)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, d.Close())
}

func TestReopenValidatesChecksum(t *testing.T) {
	path := tempVHDPath(t)
	const size = 4096

	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Create(size, CreateOptions{Clock: fixedClock(0), UUIDSource: fixedUUID(2)}))
	require.NoError(t, d.Close())

	// Flip a byte in the data region: the footer is untouched, so reopening
	// should still succeed.
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte{0xFF}, 10)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	d2, err := Open(path)
	assert.NoError(t, err)
	if d2 != nil {
		d2.Close()
	}

	// Flip a byte in the footer's non-checksum region.
	f, err = os.OpenFile(path, os.O_RDWR, 0644)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte{0xFF}, size) // cookie byte 0
	require.NoError(t, err)
	require.NoError(t, f.Close())

	d3, err := Open(path)
	assert.Nil(t, d3)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestSeekEndSemantics(t *testing.T) {
	path := tempVHDPath(t)
	const size = 4 * 1024 * 1024

	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Create(size, CreateOptions{Clock: fixedClock(0), UUIDSource: fixedUUID(3)}))

	sector, err := d.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.EqualValues(t, size/SectorSize, sector)

	tell, err := d.Tell()
	require.NoError(t, err)
	assert.EqualValues(t, size/SectorSize, tell)

	_, err = d.Read(make([]byte, SectorSize), 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, d.Close())
}

func TestOpenTruncatedExistingFileIsTreatedAsFresh(t *testing.T) {
	path := tempVHDPath(t)
	require.NoError(t, ioutil.WriteFile(path, make([]byte, 100), 0644))

	d, err := Open(path)
	require.NoError(t, err)
	assert.EqualValues(t, 0, d.Footer().CurrentSize)
	require.NoError(t, d.Close())
}

func TestCommitTruncatesStaleTrailingBytes(t *testing.T) {
	path := tempVHDPath(t)

	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Create(8192, CreateOptions{Clock: fixedClock(0), UUIDSource: fixedUUID(4)}))

	d.Footer().CurrentSize = 4096
	d.Footer().OriginalSize = 4096
	d.Footer().DiskGeometry = ComputeCHS(4096)
	d.Footer().Checksum = Checksum(d.Footer())
	require.NoError(t, d.Commit())
	require.NoError(t, d.Close())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 4096+FooterSize, fi.Size())
}

func TestCommitPreservesNativeFooter(t *testing.T) {
	path := tempVHDPath(t)

	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Create(4096, CreateOptions{Clock: fixedClock(1234), UUIDSource: fixedUUID(5)}))

	before := *d.Footer()
	require.NoError(t, d.Commit())
	after := *d.Footer()

	assert.Equal(t, before, after)
	require.NoError(t, d.Close())
}

func TestCreateRejectsNonSectorMultiple(t *testing.T) {
	path := tempVHDPath(t)
	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	err = d.Create(100, CreateOptions{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
