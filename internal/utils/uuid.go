package utils

import "github.com/google/uuid"

// IDGenerator returns unique string identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-ordered UUIDv7 identifiers. Download ids and
// trace ids built with it sort by creation time.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a [UUIDGenerator].
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUIDv7, or a random UUIDv4 if the v7 source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

var _ IDGenerator = (*UUIDGenerator)(nil)
