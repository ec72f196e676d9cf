package evaluation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nan() float64 { return math.NaN() }

func TestAveragePrecision(t *testing.T) {
	tests := []struct {
		name   string
		tuples []MetricTuple
		want   float64
	}{
		{
			name:   "empty series",
			tuples: nil,
			want:   0,
		},
		{
			name:   "single point",
			tuples: []MetricTuple{{Recall: 0.5, Precision: 0.8}},
			want:   0.4,
		},
		{
			name:   "zero recall adds nothing",
			tuples: []MetricTuple{{Recall: 0, Precision: 1}},
			want:   0,
		},
		{
			name: "worked scenario",
			tuples: []MetricTuple{
				{ConfidenceThreshold: 0.1, Recall: 0.8, Precision: 0.8},
				{ConfidenceThreshold: 0.5, Recall: 0.5, Precision: 5.0 / 6.0},
				{ConfidenceThreshold: 0.9, Recall: 0.2, Precision: 1.0},
			},
			// 0.2*1.0 + 0.3*0.8333 + 0.3*0.8
			want: 0.69,
		},
		{
			name: "no running max of precision",
			tuples: []MetricTuple{
				{Recall: 0.5, Precision: 0.2},
				{Recall: 1.0, Precision: 0.9},
			},
			want: 0.5*0.2 + 0.5*0.9,
		},
		{
			name: "duplicate recall keeps first in input order",
			tuples: []MetricTuple{
				{Recall: 0.5, Precision: 0.4},
				{Recall: 0.5, Precision: 0.9},
			},
			want: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AveragePrecision(tt.tuples), 1e-9)
		})
	}
}

func TestAveragePrecision_WorkedRecords(t *testing.T) {
	ap := AveragePrecision(ComputeMetrics(workedRecords()))
	assert.InDelta(t, 0.69, ap, 1e-9)
}

func TestAveragePrecision_PermutationInvariant(t *testing.T) {
	// Distinct recall values so the sorted order is unique.
	tuples := make([]MetricTuple, 25)
	for i := range tuples {
		tuples[i] = MetricTuple{
			ConfidenceThreshold: float64(i) / 25,
			Recall:              float64(25-i) / 25,
			Precision:           0.4 + 0.6*float64(i)/25,
		}
	}
	want := AveragePrecision(tuples)

	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 100; n++ {
		shuffled := make([]MetricTuple, len(tuples))
		copy(shuffled, tuples)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		assert.InDelta(t, want, AveragePrecision(shuffled), 1e-12, "shuffle %d", n)
	}
}

func TestAveragePrecision_DoesNotReorderInput(t *testing.T) {
	tuples := ComputeMetrics(workedRecords())
	before := make([]MetricTuple, len(tuples))
	copy(before, tuples)

	AveragePrecision(tuples)

	assert.Equal(t, before, tuples)
}

func TestAveragePrecision_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for n := 0; n < 50; n++ {
		records := make([]DetectionRecord, 1+rng.Intn(30))
		for i := range records {
			records[i] = DetectionRecord{
				ConfidenceThreshold: rng.Float64(),
				TruePositives:       rng.Intn(100),
				FalsePositives:      rng.Intn(100),
				FalseNegatives:      rng.Intn(100),
			}
		}

		ap := AveragePrecision(ComputeMetrics(records))
		assert.GreaterOrEqual(t, ap, 0.0)
		assert.LessOrEqual(t, ap, 1.0+1e-12)
	}
}
