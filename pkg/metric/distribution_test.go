package metric

import (
	"errors"
	"math"
	"testing"
)

func mustCustomFitter(t *testing.T, boundaries ...float64) *CustomFitter {
	t.Helper()
	f, err := NewCustomFitter(boundaries...)
	if err != nil {
		t.Fatalf("NewCustomFitter(%v) failed: %v", boundaries, err)
	}
	return f
}

func mustDistribution(t *testing.T, f Fitter) *MutableDistribution {
	t.Helper()
	d, err := NewMutableDistribution(f)
	if err != nil {
		t.Fatalf("NewMutableDistribution failed: %v", err)
	}
	return d
}

func checkBuckets(t *testing.T, d Distribution, want []int64) {
	t.Helper()
	got := d.BucketCounts()
	if len(got) != len(want) {
		t.Fatalf("bucket count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNewMutableDistribution(t *testing.T) {
	d := mustDistribution(t, mustCustomFitter(t, 3, 5))

	if d.Count() != 0 {
		t.Errorf("Count() = %d, want 0", d.Count())
	}
	if d.Mean() != 0 {
		t.Errorf("Mean() = %v, want 0", d.Mean())
	}
	if d.SumOfSquaredDeviation() != 0 {
		t.Errorf("SumOfSquaredDeviation() = %v, want 0", d.SumOfSquaredDeviation())
	}
	checkBuckets(t, d, []int64{0, 0, 0})
}

func TestNewMutableDistributionInvalidFitter(t *testing.T) {
	if _, err := NewMutableDistribution(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil fitter: err = %v, want ErrInvalidArgument", err)
	}

	// A third-party fitter can hand back anything; the constructor has to
	// catch it.
	for name, f := range map[string]Fitter{
		"empty":     fakeFitter{},
		"unsorted":  fakeFitter{10, 3},
		"duplicate": fakeFitter{3, 3},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := NewMutableDistribution(f); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

// fakeFitter returns its own value as boundaries, bypassing the
// constructor checks of the real fitters.
type fakeFitter []float64

func (f fakeFitter) Boundaries() []float64 { return f }

func TestAddSingleSample(t *testing.T) {
	d := mustDistribution(t, mustCustomFitter(t, 3, 5))

	if err := d.Add(5.0); err != nil {
		t.Fatalf("Add(5.0) failed: %v", err)
	}

	if d.Count() != 1 {
		t.Errorf("Count() = %d, want 1", d.Count())
	}
	if d.Mean() != 5.0 {
		t.Errorf("Mean() = %v, want 5", d.Mean())
	}
	checkBuckets(t, d, []int64{0, 0, 1})
}

func TestAddDeviation(t *testing.T) {
	d := mustDistribution(t, mustCustomFitter(t, 3, 5))

	if err := d.Add(2.0); err != nil {
		t.Fatal(err)
	}
	if err := d.Add(-2.0); err != nil {
		t.Fatal(err)
	}

	if d.Mean() != 0 {
		t.Errorf("Mean() = %v, want 0", d.Mean())
	}
	if d.SumOfSquaredDeviation() != 8 {
		t.Errorf("SumOfSquaredDeviation() = %v, want 8", d.SumOfSquaredDeviation())
	}
}

func TestAddNBatches(t *testing.T) {
	d := mustDistribution(t, mustCustomFitter(t, 3, 5))

	steps := []struct {
		sample float64
		n      int64
	}{
		{2, 1},
		{16, 1},
		{128, 5},
		{1024, 0}, // validates but records nothing
	}
	for _, s := range steps {
		if err := d.AddN(s.sample, s.n); err != nil {
			t.Fatalf("AddN(%v, %d) failed: %v", s.sample, s.n, err)
		}
	}

	if d.Count() != 7 {
		t.Errorf("Count() = %d, want 7", d.Count())
	}
	if d.Mean() != 94 {
		t.Errorf("Mean() = %v, want 94", d.Mean())
	}
	if d.SumOfSquaredDeviation() != 20328 {
		t.Errorf("SumOfSquaredDeviation() = %v, want 20328", d.SumOfSquaredDeviation())
	}
	checkBuckets(t, d, []int64{1, 0, 6})
}

func TestAddNumericStability(t *testing.T) {
	d := mustDistribution(t, mustCustomFitter(t, 3, 5))

	for i := 0; i < 500; i++ {
		if err := d.Add(1.0 / 3); err != nil {
			t.Fatal(err)
		}
		if err := d.Add(1.0 / 7); err != nil {
			t.Fatal(err)
		}
	}

	wantMean := 5.0 / 21
	wantSSD := 1000 * 4.0 / 441
	if diff := math.Abs(d.Mean() - wantMean); diff > 1e-9 {
		t.Errorf("Mean() = %v, want %v within 1e-9 (diff %v)", d.Mean(), wantMean, diff)
	}
	if diff := math.Abs(d.SumOfSquaredDeviation() - wantSSD); diff > 1e-9 {
		t.Errorf("SumOfSquaredDeviation() = %v, want %v within 1e-9 (diff %v)", d.SumOfSquaredDeviation(), wantSSD, diff)
	}
}

func TestBucketEdges(t *testing.T) {
	tests := []struct {
		name       string
		boundaries []float64
		sample     float64
		want       []int64
	}{
		{"below single boundary", []float64{5}, 4.99, []int64{1, 0}},
		{"at single boundary", []float64{5}, 5, []int64{0, 1}},
		{"underflow", []float64{3, 5}, 2, []int64{1, 0, 0}},
		{"at first boundary", []float64{3, 5}, 3, []int64{0, 1, 0}},
		{"inside finite bucket", []float64{3, 5}, 4, []int64{0, 1, 0}},
		{"at last boundary", []float64{3, 5}, 5, []int64{0, 0, 1}},
		{"overflow", []float64{3, 5}, 100, []int64{0, 0, 1}},
		{"negative underflow", []float64{0, 10}, -7, []int64{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDistribution(t, mustCustomFitter(t, tt.boundaries...))
			if err := d.Add(tt.sample); err != nil {
				t.Fatalf("Add(%v) failed: %v", tt.sample, err)
			}
			checkBuckets(t, d, tt.want)
		})
	}
}

func TestAddInvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		n      int64
	}{
		{"negative count", 1, -1},
		{"NaN", math.NaN(), 1},
		{"positive infinity", math.Inf(1), 1},
		{"negative infinity", math.Inf(-1), 1},
		{"negative zero", math.Copysign(0, -1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDistribution(t, mustCustomFitter(t, 3, 5))
			if err := d.AddN(tt.sample, tt.n); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("AddN(%v, %d) err = %v, want ErrInvalidArgument", tt.sample, tt.n, err)
			}
			if d.Count() != 0 {
				t.Errorf("Count() = %d after rejected add, want 0", d.Count())
			}
		})
	}
}

func TestPositiveZeroAccepted(t *testing.T) {
	d := mustDistribution(t, mustCustomFitter(t, 3, 5))
	if err := d.Add(0.0); err != nil {
		t.Errorf("Add(0.0) failed: %v", err)
	}
	if d.Count() != 1 {
		t.Errorf("Count() = %d, want 1", d.Count())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	d := mustDistribution(t, mustCustomFitter(t, 3, 5))
	if err := d.Add(4); err != nil {
		t.Fatal(err)
	}

	snap := d.Snapshot()

	if err := d.Add(100); err != nil {
		t.Fatal(err)
	}

	if snap.Count() != 1 {
		t.Errorf("snapshot Count() = %d, want 1", snap.Count())
	}
	if snap.Mean() != 4 {
		t.Errorf("snapshot Mean() = %v, want 4", snap.Mean())
	}
	checkBuckets(t, snap, []int64{0, 1, 0})

	// Mutating the returned slice must not leak into the snapshot.
	counts := snap.BucketCounts()
	counts[0] = 99
	if snap.BucketCounts()[0] != 0 {
		t.Error("BucketCounts() should return a copy")
	}
}
