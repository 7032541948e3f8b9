package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered identifiers for new vault entries.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7 string. UUIDv7 is preferred because it is
// time-sortable, which keeps entry IDs roughly insertion-ordered in the
// database index. Falls back to a random UUIDv4 if v7 generation fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
