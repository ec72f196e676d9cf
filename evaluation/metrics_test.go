package evaluation

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// workedRecords is the three-threshold series used throughout the package tests.
func workedRecords() []DetectionRecord {
	return []DetectionRecord{
		{ConfidenceThreshold: 0.1, TruePositives: 8, FalsePositives: 2, FalseNegatives: 2},
		{ConfidenceThreshold: 0.5, TruePositives: 5, FalsePositives: 1, FalseNegatives: 5},
		{ConfidenceThreshold: 0.9, TruePositives: 2, FalsePositives: 0, FalseNegatives: 8},
	}
}

func TestComputeMetric(t *testing.T) {
	tests := []struct {
		name          string
		record        DetectionRecord
		wantRecall    float64
		wantPrecision float64
		wantF1        float64
	}{
		{
			name:   "all zero counts",
			record: DetectionRecord{ConfidenceThreshold: 0.3},
		},
		{
			name:          "perfect detector",
			record:        DetectionRecord{ConfidenceThreshold: 0.5, TruePositives: 10},
			wantRecall:    1,
			wantPrecision: 1,
			wantF1:        1,
		},
		{
			name:       "only false positives",
			record:     DetectionRecord{FalsePositives: 4},
			wantRecall: 0,
		},
		{
			name:   "only false negatives",
			record: DetectionRecord{FalseNegatives: 4},
		},
		{
			name:          "mixed counts",
			record:        DetectionRecord{ConfidenceThreshold: 0.5, TruePositives: 5, FalsePositives: 1, FalseNegatives: 5},
			wantRecall:    0.5,
			wantPrecision: 5.0 / 6.0,
			wantF1:        0.625,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMetric(tt.record)

			assert.Equal(t, tt.record.ConfidenceThreshold, got.ConfidenceThreshold)
			assert.InDelta(t, tt.wantRecall, got.Recall, 1e-9)
			assert.InDelta(t, tt.wantPrecision, got.Precision, 1e-9)
			assert.InDelta(t, tt.wantF1, got.F1, 1e-9)
		})
	}
}

func TestComputeMetrics_WorkedScenario(t *testing.T) {
	got := ComputeMetrics(workedRecords())

	want := []MetricTuple{
		{ConfidenceThreshold: 0.1, Recall: 0.8, Precision: 0.8, F1: 0.8},
		{ConfidenceThreshold: 0.5, Recall: 0.5, Precision: 5.0 / 6.0, F1: 0.625},
		{ConfidenceThreshold: 0.9, Recall: 0.2, Precision: 1.0, F1: 1.0 / 3.0},
	}

	assert.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ConfidenceThreshold, got[i].ConfidenceThreshold, "index %d", i)
		assert.InDelta(t, want[i].Recall, got[i].Recall, 1e-9, "recall at %d", i)
		assert.InDelta(t, want[i].Precision, got[i].Precision, 1e-9, "precision at %d", i)
		assert.InDelta(t, want[i].F1, got[i].F1, 1e-9, "f1 at %d", i)
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	assert.Empty(t, ComputeMetrics(nil))
}

func TestComputeMetrics_Idempotent(t *testing.T) {
	records := workedRecords()

	first := ComputeMetrics(records)
	second := ComputeMetrics(records)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ComputeMetrics() not idempotent (-first +second):\n%s", diff)
	}
}

func TestComputeMetrics_BoundsAndHarmonicIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	records := make([]DetectionRecord, 500)
	for i := range records {
		records[i] = DetectionRecord{
			ConfidenceThreshold: rng.Float64(),
			TruePositives:       rng.Intn(50),
			FalsePositives:      rng.Intn(50),
			FalseNegatives:      rng.Intn(50),
		}
	}

	for i, m := range ComputeMetrics(records) {
		assert.GreaterOrEqual(t, m.Recall, 0.0, "recall at %d", i)
		assert.LessOrEqual(t, m.Recall, 1.0, "recall at %d", i)
		assert.GreaterOrEqual(t, m.Precision, 0.0, "precision at %d", i)
		assert.LessOrEqual(t, m.Precision, 1.0, "precision at %d", i)
		assert.GreaterOrEqual(t, m.F1, 0.0, "f1 at %d", i)
		assert.LessOrEqual(t, m.F1, 1.0, "f1 at %d", i)

		if m.Precision+m.Recall > 0 {
			want := 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
			assert.InDelta(t, want, m.F1, 1e-9, "f1 at %d", i)
		} else {
			assert.Zero(t, m.F1, "f1 at %d", i)
		}
	}
}

func TestDetectionRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  DetectionRecord
		wantErr bool
	}{
		{name: "valid", record: DetectionRecord{ConfidenceThreshold: 0.5, TruePositives: 1}},
		{name: "zero counts", record: DetectionRecord{}},
		{name: "negative TP", record: DetectionRecord{TruePositives: -1}, wantErr: true},
		{name: "negative FP", record: DetectionRecord{FalsePositives: -1}, wantErr: true},
		{name: "negative FN", record: DetectionRecord{FalseNegatives: -1}, wantErr: true},
		{name: "NaN threshold", record: DetectionRecord{ConfidenceThreshold: nan()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedRecord)
				return
			}
			assert.NoError(t, err)
		})
	}
}
