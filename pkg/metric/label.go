package metric

import (
	"fmt"
	"regexp"
)

var labelNameRe = regexp.MustCompile(`^\w+$`)

// LabelDescriptor describes one label dimension of a metric: a short
// machine-friendly name and a human-readable description.
//
// LabelDescriptor is a value type; descriptors with equal fields are equal.
type LabelDescriptor struct {
	name        string
	description string
}

// NewLabel creates a label descriptor.
//
// The name must be non-empty and consist of word characters only
// (letters, digits, underscore). The description must be non-empty.
func NewLabel(name, description string) (LabelDescriptor, error) {
	if name == "" {
		return LabelDescriptor{}, fmt.Errorf("%w: label name must not be empty", ErrInvalidArgument)
	}
	if description == "" {
		return LabelDescriptor{}, fmt.Errorf("%w: label description must not be empty", ErrInvalidArgument)
	}
	if !labelNameRe.MatchString(name) {
		return LabelDescriptor{}, fmt.Errorf("%w: label name %q must match %s", ErrInvalidArgument, name, labelNameRe)
	}
	return LabelDescriptor{name: name, description: description}, nil
}

// MustLabel is like NewLabel but panics on error. Intended for
// package-level metric definitions with constant arguments.
func MustLabel(name, description string) LabelDescriptor {
	d, err := NewLabel(name, description)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the label's name.
func (d LabelDescriptor) Name() string { return d.name }

// Description returns the label's description.
func (d LabelDescriptor) Description() string { return d.description }
