// Package charts renders precision-recall curves.
package charts

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nvr-ai/go-deteval/evaluation"
)

// Format is an image format supported by the static renderer.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// Valid reports whether the format can be rendered.
func (f Format) Valid() bool {
	switch f {
	case FormatPNG, FormatSVG, FormatPDF:
		return true
	}
	return false
}

// Options controls the size and format of rendered plots.
type Options struct {
	Format Format
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns a 6.4x4.8 inch PNG.
func DefaultOptions() Options {
	return Options{
		Format: FormatPNG,
		Width:  6.4 * vg.Inch,
		Height: 4.8 * vg.Inch,
	}
}

var curveColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// FileName returns the file name of a resolution's curve.
func FileName(resolution int, format Format) string {
	return fmt.Sprintf("precision_recall_%d.%s", resolution, format)
}

// Title returns the plot title for a resolution.
func Title(summary evaluation.ResolutionSummary) string {
	return fmt.Sprintf("Precision-Recall Curve - Image Size %d - AP %f", summary.Resolution, summary.AP)
}

// NewPRPlot builds the precision-recall plot of one resolution. Points are
// drawn in series order with recall on the x axis.
func NewPRPlot(summary evaluation.ResolutionSummary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(summary)
	p.X.Label.Text = "Recall"
	p.Y.Label.Text = "Precision"
	p.Add(plotter.NewGrid())

	if len(summary.Metrics) == 0 {
		return p, nil
	}

	pts := make(plotter.XYs, 0, len(summary.Metrics))
	for _, m := range summary.Metrics {
		pts = append(pts, plotter.XY{X: m.Recall, Y: m.Precision})
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build curve")
	}
	line.Color = curveColor
	line.Width = vg.Points(1.5)
	points.Shape = draw.CircleGlyph{}
	points.Color = curveColor
	points.Radius = vg.Points(3)

	p.Add(line, points)
	p.Legend.Add("Precision-Recall Curve", line, points)
	p.Legend.Top = true

	return p, nil
}

// SavePRCurve renders a resolution's curve into dir and returns the written path.
//
// Arguments:
//   - dir: The output directory. It must exist.
//   - summary: The resolution to plot.
//   - opts: Size and format of the image.
//
// Returns:
//   - string: The path of the written file.
//   - error: Error if the format is unsupported or rendering fails.
func SavePRCurve(dir string, summary evaluation.ResolutionSummary, opts Options) (string, error) {
	if !opts.Format.Valid() {
		return "", errors.Errorf("unsupported plot format %q", opts.Format)
	}

	p, err := NewPRPlot(summary)
	if err != nil {
		return "", errors.Wrapf(err, "resolution %d", summary.Resolution)
	}

	path := filepath.Join(dir, FileName(summary.Resolution, opts.Format))
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return "", errors.Wrapf(err, "save %s", path)
	}
	return path, nil
}
