// Package id generates prefixed random identifiers for libraries, bookcases
// and shelves.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet avoids characters that need quoting in CSV or YAML.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// size keeps ids short enough to type on the command line.
const size = 10

// Generate returns prefix-<nanoid>, e.g. "shelf-3f9k2m0qzt".
func Generate(prefix string) (string, error) {
	s, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + s, nil
}

// MustGenerate is like Generate but panics when the system has no entropy.
func MustGenerate(prefix string) string {
	s, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return s
}
