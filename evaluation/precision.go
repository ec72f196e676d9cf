package evaluation

import "sort"

// prPoint is a single (recall, precision) sample on the curve.
type prPoint struct {
	recall    float64
	precision float64
}

// AveragePrecision integrates precision over recall.
//
// The points are stably sorted by ascending recall and summed as
// Σ (Rₙ - Rₙ₋₁) * Pₙ with R₋₁ = 0. Points sharing a recall value add zero
// width, so the first of them in input order carries the step.
//
// Arguments:
//   - tuples: The metric series of one resolution, in any order.
//
// Returns:
//   - float64: The average precision, 0 for an empty series.
func AveragePrecision(tuples []MetricTuple) float64 {
	points := make([]prPoint, len(tuples))
	for i, t := range tuples {
		points[i] = prPoint{recall: t.Recall, precision: t.Precision}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].recall < points[j].recall
	})

	var ap, prevRecall float64
	for _, p := range points {
		ap += (p.recall - prevRecall) * p.precision
		prevRecall = p.recall
	}

	return ap
}
