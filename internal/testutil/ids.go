package testutil

import (
	"fmt"
	"sync/atomic"
)

// SequentialIDGenerator returns "<prefix>-1", "<prefix>-2", ... in order.
//
// This enables deterministic session IDs in golden traces: the same
// scenario always produces the same IDs.
//
// Thread-safety: SequentialIDGenerator is safe for concurrent use.
type SequentialIDGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes
// "session".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "session"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements session.IDGenerator interface.
func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}
