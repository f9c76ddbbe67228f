package turing

import (
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

var (
	// DefaultMaxInputSize is the largest tape input accepted, in bytes.
	DefaultMaxInputSize = 64 * 1024
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TURING_MAX_INPUT_SIZE"
)

// CheckInputs rejects tape inputs that are too large, not valid UTF-8, or
// that contain control characters. Inputs are rejected rather than cleaned:
// dropping a character would silently change the tape.
func CheckInputs(inputs []string) error {
	limit := maxInputSize()
	for i, input := range inputs {
		if len(input) > limit {
			return fmt.Errorf("%w: tape %d: size=%d limit=%d", domain.ErrInvalidInput, i+1, len(input), limit)
		}
		if !utf8.ValidString(input) {
			return fmt.Errorf("%w: tape %d: invalid UTF-8", domain.ErrInvalidInput, i+1)
		}
		for pos, r := range input {
			// Surrounding newlines are trimmed away by initialization.
			if unicode.IsControl(r) && !unicode.IsSpace(r) {
				return fmt.Errorf("%w: tape %d: control character %U at byte %d", domain.ErrInvalidInput, i+1, r, pos)
			}
		}
	}
	return nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
