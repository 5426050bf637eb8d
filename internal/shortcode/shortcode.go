// Package shortcode generates the random codes that identify short links.
package shortcode

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Length is the fixed length of every generated code.
	Length = 10
	// Alphabet is the set of characters codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Generator produces short codes.
type Generator interface {
	Generate() string
}

// Random draws each character uniformly from Alphabet using crypto/rand.
// Uniqueness is not checked here; the link store enforces it.
type Random struct{}

// NewRandom returns the default generator.
func NewRandom() *Random {
	return &Random{}
}

// Generate returns a new code of Length characters.
func (Random) Generate() string {
	// MustGenerate only panics on an invalid alphabet or a broken entropy source.
	return gonanoid.MustGenerate(Alphabet, Length)
}

// Valid reports whether code could have been produced by Random.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !inAlphabet(code[i]) {
			return false
		}
	}
	return true
}

func inAlphabet(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
