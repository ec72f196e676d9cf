package evaluation

import "github.com/pkg/errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrMalformedRecord indicates a record with negative counts or a non-finite threshold.
	ErrMalformedRecord = errors.New("evaluation: malformed detection record")

	// ErrEmptySeries indicates a selection over an empty metric series.
	ErrEmptySeries = errors.New("evaluation: empty metric series")

	// ErrNoResolutions indicates a selection over an empty set of summaries.
	ErrNoResolutions = errors.New("evaluation: no resolutions processed")

	// ErrDuplicateResolution indicates the same resolution was added twice.
	ErrDuplicateResolution = errors.New("evaluation: duplicate resolution")
)
