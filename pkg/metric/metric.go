package metric

import (
	"fmt"
	"math"
	"strings"
)

// ValueType identifies the dynamic type of a metric's point values.
type ValueType string

const (
	TypeInt64        ValueType = "int64"
	TypeFloat64      ValueType = "float64"
	TypeBool         ValueType = "bool"
	TypeString       ValueType = "string"
	TypeDistribution ValueType = "distribution"
)

// Value is the closed set of primitive types a stored or virtual metric
// can carry. Event metrics carry Distribution values and counters carry
// int64; neither is settable through this constraint.
type Value interface {
	int64 | float64 | bool | string
}

// Metric is the read side shared by every metric kind. The mutation
// surface differs per kind and lives on the concrete types.
type Metric interface {
	// Schema returns the metric's schema.
	Schema() Schema

	// ValueType returns the dynamic type of the metric's point values.
	ValueType() ValueType

	// Cardinality returns the number of label tuples with live values.
	// For virtual metrics this is the size of the last callback result,
	// 0 before the first snapshot.
	Cardinality() int

	// Points snapshots the metric's current values, one point per live
	// label tuple. Point order is unspecified; sort with Point.Compare
	// when determinism matters.
	Points() ([]Point, error)
}

// valueTypeFor maps a Value type parameter to its ValueType tag.
func valueTypeFor[V Value]() ValueType {
	switch any(*new(V)).(type) {
	case int64:
		return TypeInt64
	case float64:
		return TypeFloat64
	case bool:
		return TypeBool
	case string:
		return TypeString
	}
	panic("metric: unreachable value type")
}

// tupleKey encodes a label tuple as a single map key. 0xff never occurs
// in UTF-8 text, so distinct tuples stay distinct.
func tupleKey(labels []string) string {
	return strings.Join(labels, "\xff")
}

// isValidFloat reports whether v is finite, not NaN, and not negative
// zero. Negative zero is rejected because it survives arithmetic and
// compares equal to zero while encoding differently.
func isValidFloat(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if v == 0 && math.Signbit(v) {
		return false
	}
	return true
}

// checkFloat validates a float64 argument.
func checkFloat(v float64) error {
	if !isValidFloat(v) {
		return fmt.Errorf("%w: value must be finite, not NaN, and not -0.0 (got %v)", ErrInvalidArgument, v)
	}
	return nil
}
