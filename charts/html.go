package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-deteval/evaluation"
)

// HTMLFileName is the file name of the interactive overlay.
const HTMLFileName = "precision_recall.html"

// RenderHTML writes an interactive page overlaying the precision-recall curves
// of every resolution, one series per resolution in summaries order.
func RenderHTML(w io.Writer, summaries []evaluation.ResolutionSummary) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Precision-Recall Curves", Width: "900px", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "Precision-Recall Curves", Subtitle: fmt.Sprintf("resolutions=%d", len(summaries))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: 1, Name: "Recall", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "Precision", NameLocation: "middle", NameGap: 30}),
	)

	for _, s := range summaries {
		data := make([]opts.ScatterData, 0, len(s.Metrics))
		for _, m := range s.Metrics {
			data = append(data, opts.ScatterData{
				Name:  fmt.Sprintf("conf=%g F1=%.4f", m.ConfidenceThreshold, m.F1),
				Value: []interface{}{m.Recall, m.Precision},
			})
		}
		name := fmt.Sprintf("%d (AP %.4f)", s.Resolution, s.AP)
		scatter.AddSeries(name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}

	if err := scatter.Render(w); err != nil {
		return errors.Wrap(err, "render precision-recall page")
	}
	return nil
}
