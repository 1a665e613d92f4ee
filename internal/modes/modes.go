// Package modes defines the closed set of content modalities understood by the
// conversion layer and validates mode pairs requested by callers.
package modes

import "errors"

// Mode identifies a content modality.
type Mode string

// The full modality set. The set is closed: anything else fails validation.
const (
	Text   Mode = "text"
	Audio  Mode = "audio"
	Visual Mode = "visual"
)

// ErrInvalidMode is returned when a value outside the closed mode set is used.
var ErrInvalidMode = errors.New("invalid mode")

// All returns the full mode set in stable order.
func All() []Mode { return []Mode{Text, Audio, Visual} }

// IsValid reports whether m belongs to the closed mode set.
func IsValid(m Mode) bool {
	switch m {
	case Text, Audio, Visual:
		return true
	}
	return false
}

// ValidatePair checks both sides of an (input, output) pair against the mode
// set. Equal input and output is legal: same-mode conversion is a pass-through
// enhancement path, not an error.
func ValidatePair(input, output Mode) error {
	if !IsValid(input) || !IsValid(output) {
		return ErrInvalidMode
	}
	return nil
}

// String implements fmt.Stringer.
func (m Mode) String() string { return string(m) }
