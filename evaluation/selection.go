package evaluation

import (
	"gonum.org/v1/gonum/floats"
)

// BestByF1 returns the tuple with the highest F1 score. When several tuples
// share the maximum, the first one in input order is returned.
//
// Arguments:
//   - tuples: The metric series of one resolution.
//
// Returns:
//   - MetricTuple: The best threshold.
//   - error: ErrEmptySeries if tuples is empty.
func BestByF1(tuples []MetricTuple) (MetricTuple, error) {
	if len(tuples) == 0 {
		return MetricTuple{}, ErrEmptySeries
	}

	f1 := make([]float64, len(tuples))
	for i, t := range tuples {
		f1[i] = t.F1
	}

	// MaxIdx returns the first index holding the maximum.
	return tuples[floats.MaxIdx(f1)], nil
}

// BestByAP returns the resolution whose summary has the highest AP. Ties go to
// the resolution added first.
//
// Arguments:
//   - summaries: The per-resolution summaries in processing order.
//
// Returns:
//   - int: The best resolution.
//   - error: ErrNoResolutions if summaries is nil or empty.
func BestByAP(summaries *Summaries) (int, error) {
	if summaries.Len() == 0 {
		return 0, ErrNoResolutions
	}

	order := summaries.order
	ap := make([]float64, len(order))
	for i, res := range order {
		ap[i] = summaries.byRes[res].AP
	}

	return order[floats.MaxIdx(ap)], nil
}

// Best returns the summary of the resolution selected by BestByAP.
func Best(summaries *Summaries) (ResolutionSummary, error) {
	res, err := BestByAP(summaries)
	if err != nil {
		return ResolutionSummary{}, err
	}
	summary, _ := summaries.Get(res)
	return summary, nil
}
