// Package vhd reads and writes fixed-size Microsoft/Connectix Virtual Hard
// Disk (VHD) files: a contiguous raw-sector data region followed by a
// 512-byte big-endian metadata footer. Dynamic and differencing VHDs are
// not supported.
package vhd
