package metric

import (
	"fmt"
	"strings"
)

// Kind describes the time-interval semantics of a metric's points.
type Kind string

const (
	// KindCumulative marks metrics whose points cover the interval since
	// the tuple's start timestamp (counters, event distributions).
	KindCumulative Kind = "cumulative"

	// KindGauge marks instantaneous metrics whose points have
	// start == end (stored and virtual metrics).
	KindGauge Kind = "gauge"
)

// Schema describes a metric: its slash-separated name, prose, kind, and
// ordered label dimensions. A Schema is immutable once built.
type Schema struct {
	name             string
	description      string
	valueDisplayName string
	kind             Kind
	labels           []LabelDescriptor
}

// NewSchema creates a schema.
//
// The name must be non-blank, URL-path-like, and start with '/'. The
// description and value display name must be non-empty. Labels are kept in
// the given order; operations on the metric supply label values in this
// order.
func NewSchema(name, description, valueDisplayName string, kind Kind, labels []LabelDescriptor) (Schema, error) {
	if strings.TrimSpace(name) == "" {
		return Schema{}, fmt.Errorf("%w: metric name must not be blank", ErrInvalidArgument)
	}
	if !strings.HasPrefix(name, "/") {
		return Schema{}, fmt.Errorf("%w: metric name %q must be URL-like and start with '/'", ErrInvalidArgument, name)
	}
	if description == "" {
		return Schema{}, fmt.Errorf("%w: metric description must not be empty", ErrInvalidArgument)
	}
	if valueDisplayName == "" {
		return Schema{}, fmt.Errorf("%w: value display name must not be empty", ErrInvalidArgument)
	}
	if kind != KindCumulative && kind != KindGauge {
		return Schema{}, fmt.Errorf("%w: unknown metric kind %q", ErrInvalidArgument, kind)
	}
	for _, l := range labels {
		if l.name == "" {
			return Schema{}, fmt.Errorf("%w: labels must be built with NewLabel", ErrInvalidArgument)
		}
	}

	s := Schema{
		name:             name,
		description:      description,
		valueDisplayName: valueDisplayName,
		kind:             kind,
	}
	if len(labels) > 0 {
		s.labels = make([]LabelDescriptor, len(labels))
		copy(s.labels, labels)
	}
	return s, nil
}

// Name returns the metric name.
func (s Schema) Name() string { return s.name }

// Description returns the metric description.
func (s Schema) Description() string { return s.description }

// ValueDisplayName returns the human-readable name of the metric's value,
// e.g. "requests" or "latency".
func (s Schema) ValueDisplayName() string { return s.valueDisplayName }

// Kind returns the metric kind.
func (s Schema) Kind() Kind { return s.kind }

// Labels returns a copy of the ordered label dimensions.
func (s Schema) Labels() []LabelDescriptor {
	if len(s.labels) == 0 {
		return nil
	}
	out := make([]LabelDescriptor, len(s.labels))
	copy(out, s.labels)
	return out
}

// NumLabels returns the number of label dimensions.
func (s Schema) NumLabels() int { return len(s.labels) }

// checkTuple validates that a label-value tuple matches the schema's
// dimension count.
func (s Schema) checkTuple(labels []string) error {
	if len(labels) != len(s.labels) {
		return fmt.Errorf("%w: got %d label values for %q, want %d", ErrLabelCount, len(labels), s.name, len(s.labels))
	}
	return nil
}
