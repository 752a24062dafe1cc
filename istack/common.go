package istack

import (
	"github.com/twinj/uuid"
)

// Convenience constants in binary sizes.
const (
	Kilo = 1 << 10
	Mega = 1 << 20
)

// UUID is a 32 character hexadecimal string ("" if invalid) that uniquely
// identifies a stack instance for activity logging.
type UUID string

// NilUUID is an empty UUID.
const NilUUID = UUID("")

// NewUUID returns a version 4 (random) UUID.
func NewUUID() UUID {
	return UUID(uuid.NewV4().String())
}
