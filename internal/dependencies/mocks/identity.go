package mocks

import (
	"fmt"

	"github.com/tallyhq/scorekeep/internal/dependencies/identity"
)

// MockGenerator is a mock ID generator producing a deterministic sequence
type MockGenerator struct {
	queued []string
	serial int
}

// Ensure MockGenerator implements Generator
var _ identity.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates an empty MockGenerator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// QueueID queues an ID to be returned by the next NewID call
func (g *MockGenerator) QueueID(id string) {
	g.queued = append(g.queued, id)
}

// NewID returns the next queued ID, or a sequential fallback when the
// queue is empty
func (g *MockGenerator) NewID() string {
	if len(g.queued) > 0 {
		id := g.queued[0]
		g.queued = g.queued[1:]
		return id
	}
	g.serial++
	return fmt.Sprintf("id-%04d", g.serial)
}
