package vhd

import "github.com/google/uuid"

// UUIDSource returns 16 random bytes suitable for a footer's UniqueID field.
// Any generator satisfying this contract may be used; NewUUID below is the
// default, backed by github.com/google/uuid.
type UUIDSource func() [16]byte

// NewUUID generates a random (version 4) UUID using github.com/google/uuid.
func NewUUID() [16]byte {
	generated := uuid.New()
	var id [16]byte
	copy(id[:], generated[:])
	return id
}
