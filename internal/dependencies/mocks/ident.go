package mocks

import (
	"fmt"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/ident"
)

// MockIdent is a mock implementation of ident.Generator for testing.
// It returns sequential ids ("id-1", "id-2", ...) so tests can assert on
// uniqueness without depending on UUID output.
type MockIdent struct {
	counter int
}

// Ensure MockIdent implements Generator
var _ ident.Generator = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

// NewID returns the next sequential id
func (g *MockIdent) NewID() string {
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}
