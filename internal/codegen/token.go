package codegen

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator names stage directories. Tokens must be unique per pass
// within one parent directory so that two concurrent generation passes
// never write into each other's stage.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Tokens issues time-sortable UUIDv7 tokens. The embedded timestamp
// makes leftover stages from crashed passes easy to date when inspecting a
// build directory.
//
// Stateless and safe for concurrent use.
type UUIDv7Tokens struct{}

// Generate returns a new hyphenated UUIDv7 string.
func (UUIDv7Tokens) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokens returns predetermined tokens in order, for deterministic
// tests.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a generator that returns the given tokens in
// order and panics once they are exhausted, failing fast on a test that
// stages more than it declared.
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedTokens: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
