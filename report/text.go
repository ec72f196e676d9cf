// Package report writes evaluation results for people and for other tools.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-deteval/evaluation"
)

// TextFileName is the file name of the human-readable report.
const TextFileName = "best_configuration.txt"

const banner = "================ \n"

// FormatThreshold prints a confidence threshold in its shortest form, always
// keeping a decimal point ("0.25", "1.0").
func FormatThreshold(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func writeSummary(w *bufio.Writer, label string, s evaluation.ResolutionSummary) {
	fmt.Fprintf(w, "%s: %d\n", label, s.Resolution)
	fmt.Fprintf(w, "AP: %.4f\n", s.AP)
	fmt.Fprintf(w, "Best Threshold: %s\n", FormatThreshold(s.BestThreshold.ConfidenceThreshold))
	fmt.Fprintf(w, "Recall: %.4f\n", s.BestThreshold.Recall)
	fmt.Fprintf(w, "Precision: %.4f\n", s.BestThreshold.Precision)
	fmt.Fprintf(w, "F1-Score: %.4f\n", s.BestThreshold.F1)
}

// WriteText writes the best configuration followed by a recap of every
// resolution in processing order.
//
// Arguments:
//   - w: The destination.
//   - best: The overall best resolution.
//   - summaries: Every evaluated resolution.
//
// Returns:
//   - error: The first write error.
func WriteText(w io.Writer, best evaluation.ResolutionSummary, summaries *evaluation.Summaries) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(banner)
	writeSummary(bw, "Best Image Size", best)
	bw.WriteString(banner)
	bw.WriteString("\n## Resume Images Configurations:\n")
	bw.WriteString("\n")

	for _, s := range summaries.Items() {
		writeSummary(bw, "Image Size", s)
		bw.WriteString("\n")
	}

	return bw.Flush()
}
