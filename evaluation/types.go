// Package evaluation turns per-threshold detection counts into detection-quality
// metrics and selects the best confidence threshold and input resolution.
//
// Average Precision is computed as a plain Riemann sum of precision over recall
// after sorting the points by recall. Unlike the usual object-detection AP it does
// not take a running maximum of precision before integrating, so values are
// comparable only with other runs of this package.
package evaluation

import (
	"math"

	"github.com/pkg/errors"
)

// DetectionRecord holds the detector's counts at a single confidence threshold.
type DetectionRecord struct {
	ConfidenceThreshold float64 `json:"confThresh" yaml:"confThresh"`
	TruePositives       int     `json:"tp"         yaml:"tp"`
	FalsePositives      int     `json:"fp"         yaml:"fp"`
	FalseNegatives      int     `json:"fn"         yaml:"fn"`
}

// Validate reports whether the record can be evaluated.
//
// Returns:
//   - error: ErrMalformedRecord wrapped with the offending field, or nil.
func (r DetectionRecord) Validate() error {
	if math.IsNaN(r.ConfidenceThreshold) || math.IsInf(r.ConfidenceThreshold, 0) {
		return errors.Wrapf(ErrMalformedRecord, "confidence threshold %v", r.ConfidenceThreshold)
	}
	if r.TruePositives < 0 || r.FalsePositives < 0 || r.FalseNegatives < 0 {
		return errors.Wrapf(ErrMalformedRecord, "negative count TP=%d FP=%d FN=%d",
			r.TruePositives, r.FalsePositives, r.FalseNegatives)
	}
	return nil
}

// MetricTuple is the recall, precision and F1 score derived from one DetectionRecord.
type MetricTuple struct {
	ConfidenceThreshold float64 `json:"confThresh" yaml:"confThresh"`
	Recall              float64 `json:"recall"     yaml:"recall"`
	Precision           float64 `json:"precision"  yaml:"precision"`
	F1                  float64 `json:"f1"         yaml:"f1"`
}

// ResolutionSummary is the evaluation outcome for a single input resolution.
type ResolutionSummary struct {
	Resolution    int           `json:"resolution"    yaml:"resolution"`
	AP            float64       `json:"ap"            yaml:"ap"`
	BestThreshold MetricTuple   `json:"bestThreshold" yaml:"bestThreshold"`
	Metrics       []MetricTuple `json:"metrics"       yaml:"metrics"`
}

// ResolutionRecords pairs a resolution with the records measured at it.
type ResolutionRecords struct {
	Resolution int
	Records    []DetectionRecord
}
