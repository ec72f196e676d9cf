package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestByF1(t *testing.T) {
	t.Run("worked scenario", func(t *testing.T) {
		best, err := BestByF1(ComputeMetrics(workedRecords()))
		require.NoError(t, err)

		assert.Equal(t, 0.1, best.ConfidenceThreshold)
		assert.InDelta(t, 0.8, best.Recall, 1e-9)
		assert.InDelta(t, 0.8, best.Precision, 1e-9)
		assert.InDelta(t, 0.8, best.F1, 1e-9)
	})

	t.Run("ties keep first occurrence", func(t *testing.T) {
		tuples := []MetricTuple{
			{ConfidenceThreshold: 0.2, F1: 0.5},
			{ConfidenceThreshold: 0.4, F1: 0.7},
			{ConfidenceThreshold: 0.6, F1: 0.7},
		}

		best, err := BestByF1(tuples)
		require.NoError(t, err)
		assert.Equal(t, 0.4, best.ConfidenceThreshold)
	})

	t.Run("all zero", func(t *testing.T) {
		tuples := []MetricTuple{{ConfidenceThreshold: 0.3}, {ConfidenceThreshold: 0.7}}

		best, err := BestByF1(tuples)
		require.NoError(t, err)
		assert.Equal(t, 0.3, best.ConfidenceThreshold)
	})

	t.Run("empty series", func(t *testing.T) {
		_, err := BestByF1(nil)
		assert.ErrorIs(t, err, ErrEmptySeries)
	})
}

func TestBestByAP(t *testing.T) {
	t.Run("first maximum wins", func(t *testing.T) {
		summaries := NewSummaries(3)
		require.NoError(t, summaries.Add(ResolutionSummary{Resolution: 512, AP: 0.6}))
		require.NoError(t, summaries.Add(ResolutionSummary{Resolution: 608, AP: 0.75}))
		require.NoError(t, summaries.Add(ResolutionSummary{Resolution: 800, AP: 0.75}))

		best, err := BestByAP(summaries)
		require.NoError(t, err)
		assert.Equal(t, 608, best)
	})

	t.Run("insertion order not numeric order", func(t *testing.T) {
		summaries := NewSummaries(2)
		require.NoError(t, summaries.Add(ResolutionSummary{Resolution: 800, AP: 0.5}))
		require.NoError(t, summaries.Add(ResolutionSummary{Resolution: 512, AP: 0.5}))

		best, err := BestByAP(summaries)
		require.NoError(t, err)
		assert.Equal(t, 800, best)
	})

	t.Run("empty mapping", func(t *testing.T) {
		_, err := BestByAP(NewSummaries(0))
		assert.ErrorIs(t, err, ErrNoResolutions)
	})

	t.Run("nil mapping", func(t *testing.T) {
		_, err := BestByAP(nil)
		assert.ErrorIs(t, err, ErrNoResolutions)
	})
}

func TestBest(t *testing.T) {
	summaries := NewSummaries(2)
	require.NoError(t, summaries.Add(ResolutionSummary{Resolution: 416, AP: 0.3}))
	require.NoError(t, summaries.Add(ResolutionSummary{
		Resolution:    640,
		AP:            0.9,
		BestThreshold: MetricTuple{ConfidenceThreshold: 0.35, F1: 0.88},
	}))

	best, err := Best(summaries)
	require.NoError(t, err)
	assert.Equal(t, 640, best.Resolution)
	assert.Equal(t, 0.35, best.BestThreshold.ConfidenceThreshold)

	_, err = Best(NewSummaries(0))
	assert.ErrorIs(t, err, ErrNoResolutions)
}
