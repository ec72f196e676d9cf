package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-deteval/evaluation"
)

// CSVFileName is the file name of the per-threshold table.
const CSVFileName = "evaluation_summary.csv"

var csvHeader = []string{"Resolution", "Conf_Thresh", "Recall", "Precision", "F1", "AP", "Best"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes one row per resolution and threshold. Best marks the
// threshold selected for the resolution.
func WriteCSV(w io.Writer, summaries *evaluation.Summaries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, s := range summaries.Items() {
		res := strconv.Itoa(s.Resolution)
		ap := formatFloat(s.AP)
		marked := false
		for _, m := range s.Metrics {
			best := !marked && m == s.BestThreshold
			if best {
				marked = true
			}
			row := []string{
				res,
				formatFloat(m.ConfidenceThreshold),
				formatFloat(m.Recall),
				formatFloat(m.Precision),
				formatFloat(m.F1),
				ap,
				strconv.FormatBool(best),
			}
			if err := cw.Write(row); err != nil {
				return errors.Wrapf(err, "write row for resolution %d", s.Resolution)
			}
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
