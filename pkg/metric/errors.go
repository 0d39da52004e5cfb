package metric

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by this package. Call sites wrap them with
// context; match with errors.Is.
var (
	// ErrInvalidArgument marks rejected schema, label, fitter, or sample
	// arguments. Validation happens synchronously at the call site; values
	// are never coerced.
	ErrInvalidArgument = errors.New("metric: invalid argument")

	// ErrLabelCount is returned when an operation's label values do not
	// line up one for one with the metric's label dimensions. It matches
	// ErrInvalidArgument.
	ErrLabelCount = fmt.Errorf("%w: count of label values must equal the metric's count of labels", ErrInvalidArgument)

	// ErrDuplicateMetric is returned when registering a metric under a
	// name that is already taken.
	ErrDuplicateMetric = errors.New("metric: duplicate metric of same name")
)
