package token

import (
	"crypto/rand"
	"io"
	"regexp"

	"github.com/google/uuid"
)

// Canonical UUID v4 text form: version nibble pinned to 4, variant nibble
// limited to 8, 9, a or b. Hex digits match case-insensitively.
var tokenPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type (
	// Generator mints globally unique item tokens. Uniqueness comes from
	// entropy alone; the item store's unique index is the final arbiter.
	Generator interface {
		Generate() (string, error)
	}

	generator struct {
		random io.Reader
	}
)

func NewGenerator() Generator {
	return &generator{random: rand.Reader}
}

// NewGeneratorWithSource allows tests to supply a deterministic random source.
func NewGeneratorWithSource(random io.Reader) Generator {
	return &generator{random: random}
}

func (g *generator) Generate() (string, error) {
	id, err := uuid.NewRandomFromReader(g.random)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsValid reports whether candidate matches the token grammar. It is a pure
// format check and says nothing about whether the token exists.
func IsValid(candidate string) bool {
	return tokenPattern.MatchString(candidate)
}
