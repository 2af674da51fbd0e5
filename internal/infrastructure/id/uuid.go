package id

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator mints random v4 ids without dashes.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
