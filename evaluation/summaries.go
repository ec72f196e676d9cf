package evaluation

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Summaries maps resolutions to their summaries and iterates in the order the
// resolutions were added.
type Summaries struct {
	order []int
	byRes map[int]ResolutionSummary
}

// NewSummaries creates an empty mapping sized for n resolutions.
func NewSummaries(n int) *Summaries {
	return &Summaries{
		order: make([]int, 0, n),
		byRes: make(map[int]ResolutionSummary, n),
	}
}

// Add appends a summary. Adding a resolution twice fails with ErrDuplicateResolution.
func (s *Summaries) Add(summary ResolutionSummary) error {
	if _, ok := s.byRes[summary.Resolution]; ok {
		return errors.Wrapf(ErrDuplicateResolution, "resolution %d", summary.Resolution)
	}
	s.order = append(s.order, summary.Resolution)
	s.byRes[summary.Resolution] = summary
	return nil
}

// Get returns the summary for a resolution and whether it exists.
func (s *Summaries) Get(resolution int) (ResolutionSummary, bool) {
	if s == nil {
		return ResolutionSummary{}, false
	}
	summary, ok := s.byRes[resolution]
	return summary, ok
}

// Len returns the number of resolutions.
func (s *Summaries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Resolutions returns the resolutions in insertion order.
func (s *Summaries) Resolutions() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Items returns the summaries in insertion order.
func (s *Summaries) Items() []ResolutionSummary {
	if s == nil {
		return nil
	}
	items := make([]ResolutionSummary, 0, len(s.order))
	for _, res := range s.order {
		items = append(items, s.byRes[res])
	}
	return items
}

// MarshalJSON encodes the summaries as an array to keep their order.
func (s *Summaries) MarshalJSON() ([]byte, error) {
	items := s.Items()
	if items == nil {
		items = []ResolutionSummary{}
	}
	return json.Marshal(items)
}
