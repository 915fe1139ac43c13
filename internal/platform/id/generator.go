package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates run identifiers.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time ordered UUIDv7 values so run ids sort by start.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

// Static returns the same id every time.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
