package reservation

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
)

// CodeAlphabet is the character set of reservation codes.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeChecker reports whether a code is already in use.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// CodeGenerator produces short random codes not yet used by any reservation.
// The exists check and the later insert are not atomic; the unique index on the code
// column catches the rare collision between concurrent requests.
type CodeGenerator struct {
	checker     CodeChecker
	length      int
	maxAttempts int
	random      io.Reader
}

func NewCodeGenerator(checker CodeChecker, length, maxAttempts int) *CodeGenerator {
	return &CodeGenerator{
		checker:     checker,
		length:      length,
		maxAttempts: maxAttempts,
		random:      rand.Reader,
	}
}

// WithRandom replaces the entropy source, for reproducible codes.
func (g *CodeGenerator) WithRandom(r io.Reader) *CodeGenerator {
	g.random = r
	return g
}

// Generate returns an unused code, or ErrCodeExhausted after maxAttempts collisions.
func (g *CodeGenerator) Generate(ctx context.Context) (string, error) {
	if g.length <= 0 || g.maxAttempts <= 0 {
		return "", fmt.Errorf("code generator needs positive length and attempts, got %d and %d", g.length, g.maxAttempts)
	}
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := g.randomCode()
		if err != nil {
			return "", err
		}
		exists, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func (g *CodeGenerator) randomCode() (string, error) {
	// Bytes at or above the largest multiple of the alphabet size are discarded to keep the draw uniform.
	const limit = 256 - 256%len(CodeAlphabet)

	code := make([]byte, 0, g.length)
	buf := make([]byte, 1)
	for len(code) < g.length {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		if int(buf[0]) >= limit {
			continue
		}
		code = append(code, CodeAlphabet[int(buf[0])%len(CodeAlphabet)])
	}
	return string(code), nil
}
