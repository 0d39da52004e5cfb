package metric

import (
	"fmt"
	"sort"
)

// Distribution summarizes a stream of float64 samples: total count, mean,
// sum of squared deviations from the mean, and a histogram over
// fitter-defined buckets. Count, mean, and SSD are exact for the samples
// seen, independent of bucketing.
type Distribution interface {
	// Count returns the number of samples recorded.
	Count() int64

	// Mean returns the arithmetic mean of all samples, 0 when empty.
	Mean() float64

	// SumOfSquaredDeviation returns the sum of squared deviations from
	// the mean (variance * count).
	SumOfSquaredDeviation() float64

	// Fitter returns the fitter that defined the bucket boundaries.
	Fitter() Fitter

	// BucketCounts returns per-bucket sample counts: index 0 is the
	// underflow bucket, index len(boundaries) the overflow bucket.
	BucketCounts() []int64
}

// MutableDistribution accumulates samples. It is not safe for concurrent
// use; callers synchronize (event metrics record under their tuple's
// shard lock).
type MutableDistribution struct {
	fitter     Fitter
	boundaries []float64
	counts     []int64
	count      int64
	mean       float64
	ssd        float64
}

// NewMutableDistribution creates an empty distribution with the fitter's
// buckets. The fitter's boundaries must be non-empty and strictly
// ascending; fitters from this package always are, the check guards
// third-party Fitter implementations.
func NewMutableDistribution(fitter Fitter) (*MutableDistribution, error) {
	if fitter == nil {
		return nil, fmt.Errorf("%w: fitter must not be nil", ErrInvalidArgument)
	}
	boundaries := fitter.Boundaries()
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("%w: fitter boundaries must not be empty", ErrInvalidArgument)
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i-1] >= boundaries[i] {
			return nil, fmt.Errorf("%w: fitter boundaries must be strictly ascending", ErrInvalidArgument)
		}
	}

	return &MutableDistribution{
		fitter:     fitter,
		boundaries: boundaries,
		counts:     make([]int64, len(boundaries)+1),
	}, nil
}

// Add records a single sample.
func (d *MutableDistribution) Add(sample float64) error {
	return d.AddN(sample, 1)
}

// AddN records a sample n times in one step. n must be non-negative;
// n == 0 validates arguments and records nothing.
//
// Mean and SSD follow Welford's batch update, so they stay numerically
// stable over long streams.
func (d *MutableDistribution) AddN(sample float64, n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: sample count must be non-negative (got %d)", ErrInvalidArgument, n)
	}
	if err := checkFloat(sample); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	d.count += n
	delta := sample - d.mean
	d.mean += delta * float64(n) / float64(d.count)
	d.ssd += delta * (sample - d.mean) * float64(n)

	d.counts[d.bucketIndex(sample)] += n
	return nil
}

// bucketIndex returns the bucket for a sample: the index of the first
// boundary strictly greater than it. Index 0 is underflow,
// len(boundaries) overflow.
func (d *MutableDistribution) bucketIndex(sample float64) int {
	return sort.Search(len(d.boundaries), func(i int) bool {
		return sample < d.boundaries[i]
	})
}

// Count implements Distribution.
func (d *MutableDistribution) Count() int64 { return d.count }

// Mean implements Distribution.
func (d *MutableDistribution) Mean() float64 { return d.mean }

// SumOfSquaredDeviation implements Distribution.
func (d *MutableDistribution) SumOfSquaredDeviation() float64 { return d.ssd }

// Fitter implements Distribution.
func (d *MutableDistribution) Fitter() Fitter { return d.fitter }

// BucketCounts implements Distribution.
func (d *MutableDistribution) BucketCounts() []int64 {
	out := make([]int64, len(d.counts))
	copy(out, d.counts)
	return out
}

// Snapshot returns an immutable copy of the distribution's current state.
func (d *MutableDistribution) Snapshot() *DistributionSnapshot {
	return &DistributionSnapshot{
		fitter:     d.fitter,
		boundaries: cloneBounds(d.boundaries),
		counts:     d.BucketCounts(),
		count:      d.count,
		mean:       d.mean,
		ssd:        d.ssd,
	}
}

// DistributionSnapshot is a point-in-time copy of a distribution, safe to
// share across goroutines. Event metric points carry this type.
type DistributionSnapshot struct {
	fitter     Fitter
	boundaries []float64
	counts     []int64
	count      int64
	mean       float64
	ssd        float64
}

// Count implements Distribution.
func (s *DistributionSnapshot) Count() int64 { return s.count }

// Mean implements Distribution.
func (s *DistributionSnapshot) Mean() float64 { return s.mean }

// SumOfSquaredDeviation implements Distribution.
func (s *DistributionSnapshot) SumOfSquaredDeviation() float64 { return s.ssd }

// Fitter implements Distribution.
func (s *DistributionSnapshot) Fitter() Fitter { return s.fitter }

// BucketCounts implements Distribution.
func (s *DistributionSnapshot) BucketCounts() []int64 {
	out := make([]int64, len(s.counts))
	copy(out, s.counts)
	return out
}
