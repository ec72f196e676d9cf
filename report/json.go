package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-deteval/evaluation"
)

// JSONFileName is the file name of the machine-readable results.
const JSONFileName = "evaluation_results.json"

// Document is the machine-readable form of a run.
type Document struct {
	RunID       uuid.UUID                    `json:"runID"`
	GeneratedAt time.Time                    `json:"generatedAt"`
	Best        evaluation.ResolutionSummary `json:"best"`
	Resolutions *evaluation.Summaries        `json:"resolutions"`
	Failures    []string                     `json:"failures,omitempty"`
}

// WriteJSON writes the document as indented JSON with full-precision values.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode results")
	}
	return nil
}
