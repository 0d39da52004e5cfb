package metric

import (
	"fmt"
	"math"
)

// Fitter defines histogram bucket boundaries for a distribution.
//
// n ascending boundaries define n+1 buckets: an underflow bucket
// (-inf, b0), half-open finite buckets [b_i, b_i+1), and an overflow
// bucket [b_n-1, +inf). A sample equal to a boundary lands in the bucket
// that starts at that boundary.
type Fitter interface {
	// Boundaries returns a copy of the ascending bucket boundaries.
	Boundaries() []float64
}

// DefaultFitter is used by event metrics created without an explicit
// fitter: 16 exponential intervals with base 4 starting at 1.
var DefaultFitter Fitter = func() Fitter {
	f, err := NewExponentialFitter(16, 4.0, 1.0)
	if err != nil {
		panic(err)
	}
	return f
}()

func cloneBounds(b []float64) []float64 {
	out := make([]float64, len(b))
	copy(out, b)
	return out
}

// LinearFitter defines evenly sized buckets: boundaries at
// offset + width*i for i in [0, numFiniteIntervals].
type LinearFitter struct {
	boundaries []float64
	width      float64
	offset     float64
}

// NewLinearFitter creates a linear fitter. numFiniteIntervals must be
// positive, width must be positive, and offset must be a valid float.
func NewLinearFitter(numFiniteIntervals int, width, offset float64) (*LinearFitter, error) {
	if numFiniteIntervals <= 0 {
		return nil, fmt.Errorf("%w: number of finite intervals must be positive (got %d)", ErrInvalidArgument, numFiniteIntervals)
	}
	if !(width > 0) {
		return nil, fmt.Errorf("%w: bucket width must be positive (got %v)", ErrInvalidArgument, width)
	}
	if err := checkFloat(offset); err != nil {
		return nil, err
	}

	boundaries := make([]float64, numFiniteIntervals+1)
	for i := range boundaries {
		boundaries[i] = offset + width*float64(i)
	}
	return &LinearFitter{boundaries: boundaries, width: width, offset: offset}, nil
}

// Boundaries returns a copy of the bucket boundaries.
func (f *LinearFitter) Boundaries() []float64 { return cloneBounds(f.boundaries) }

// Width returns the bucket width.
func (f *LinearFitter) Width() float64 { return f.width }

// Offset returns the first boundary.
func (f *LinearFitter) Offset() float64 { return f.offset }

// ExponentialFitter defines geometrically growing buckets: boundaries at
// scale * base^i for i in [0, numFiniteIntervals].
type ExponentialFitter struct {
	boundaries []float64
	base       float64
	scale      float64
}

// NewExponentialFitter creates an exponential fitter. numFiniteIntervals
// must be positive, base must be greater than 1, and scale must be a
// valid non-zero float.
func NewExponentialFitter(numFiniteIntervals int, base, scale float64) (*ExponentialFitter, error) {
	if numFiniteIntervals <= 0 {
		return nil, fmt.Errorf("%w: number of finite intervals must be positive (got %d)", ErrInvalidArgument, numFiniteIntervals)
	}
	if !(base > 1) {
		return nil, fmt.Errorf("%w: exponential base must be greater than 1 (got %v)", ErrInvalidArgument, base)
	}
	if err := checkFloat(scale); err != nil {
		return nil, err
	}
	if scale == 0 {
		return nil, fmt.Errorf("%w: scale must not be zero", ErrInvalidArgument)
	}

	boundaries := make([]float64, numFiniteIntervals+1)
	for i := range boundaries {
		boundaries[i] = scale * math.Pow(base, float64(i))
	}
	return &ExponentialFitter{boundaries: boundaries, base: base, scale: scale}, nil
}

// Boundaries returns a copy of the bucket boundaries.
func (f *ExponentialFitter) Boundaries() []float64 { return cloneBounds(f.boundaries) }

// Base returns the growth factor between neighboring boundaries.
func (f *ExponentialFitter) Base() float64 { return f.base }

// Scale returns the first boundary.
func (f *ExponentialFitter) Scale() float64 { return f.scale }

// CustomFitter uses caller-supplied boundaries verbatim.
type CustomFitter struct {
	boundaries []float64
}

// NewCustomFitter creates a fitter from explicit boundaries. Boundaries
// must be non-empty, strictly ascending, and valid floats.
func NewCustomFitter(boundaries ...float64) (*CustomFitter, error) {
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("%w: boundaries must not be empty", ErrInvalidArgument)
	}
	for i, b := range boundaries {
		if err := checkFloat(b); err != nil {
			return nil, err
		}
		if i > 0 && boundaries[i-1] >= b {
			return nil, fmt.Errorf("%w: boundaries must be strictly ascending (%v before %v)", ErrInvalidArgument, boundaries[i-1], b)
		}
	}
	return &CustomFitter{boundaries: cloneBounds(boundaries)}, nil
}

// Boundaries returns a copy of the bucket boundaries.
func (f *CustomFitter) Boundaries() []float64 { return cloneBounds(f.boundaries) }

// NewFibonacciFitter creates a fitter with boundaries 0, 1, 2, 3, 5, 8,
// ... up to and including the largest Fibonacci number not greater than
// maxBucketSize. Useful when small samples need finer resolution than any
// exponential base gives without drowning in linear buckets.
func NewFibonacciFitter(maxBucketSize int64) (*CustomFitter, error) {
	if maxBucketSize <= 0 {
		return nil, fmt.Errorf("%w: max bucket size must be positive (got %d)", ErrInvalidArgument, maxBucketSize)
	}

	boundaries := []float64{0}
	for i, j := int64(1), int64(2); i <= maxBucketSize; i, j = j, i+j {
		boundaries = append(boundaries, float64(i))
	}
	return NewCustomFitter(boundaries...)
}
