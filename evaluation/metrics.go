package evaluation

// ComputeMetric derives recall, precision and F1 from a single record.
// Every ratio with a zero denominator resolves to 0.
func ComputeMetric(r DetectionRecord) MetricTuple {
	m := MetricTuple{ConfidenceThreshold: r.ConfidenceThreshold}

	tp := r.TruePositives
	if tp+r.FalseNegatives > 0 {
		m.Recall = float64(tp) / float64(tp+r.FalseNegatives)
	}
	if tp+r.FalsePositives > 0 {
		m.Precision = float64(tp) / float64(tp+r.FalsePositives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}

// ComputeMetrics converts records to metric tuples. Output index i is derived
// from input index i.
func ComputeMetrics(records []DetectionRecord) []MetricTuple {
	tuples := make([]MetricTuple, len(records))
	for i, r := range records {
		tuples[i] = ComputeMetric(r)
	}
	return tuples
}
