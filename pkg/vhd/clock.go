package vhd

import "time"

// vhdEpochOffset is 2000-01-01T00:00:00Z expressed as seconds since the Unix
// epoch. VHD timestamps are seconds since this moment, not since the Unix
// epoch -- the original Vinil source uses raw Unix time here, which
// spec.md §6/§9 flags as a known bug. This package uses the VHD epoch.
const vhdEpochOffset = 946684800

// Clock returns the current time as seconds since the VHD epoch
// (2000-01-01T00:00:00Z), truncated to fit the footer's 32-bit timestamp
// field. Any function with this signature satisfies the contract; Now is the
// default, backed by time.Now.
type Clock func() uint32

// Now returns the current wall-clock time as seconds since the VHD epoch.
func Now() uint32 {
	return uint32(time.Now().Unix() - vhdEpochOffset)
}
