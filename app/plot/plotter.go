package plot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/spf13/afero"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"

	"github.com/lysyi3m/episode-trends/app/stats"
)

// Chart is everything needed to draw one scatter plot with its trend line.
type Chart struct {
	X      []float64
	Y      []float64
	Model  stats.Model
	Title  string
	XLabel string
	YLabel string
	File   string
}

// Plotter renders a chart to an image file.
type Plotter interface {
	Render(chart Chart) (string, error)
}

// PNGPlotter writes 9x6 inch PNG plots into dir on fs.
type PNGPlotter struct {
	fs  afero.Fs
	dir string
}

var _ Plotter = (*PNGPlotter)(nil)

func NewPNGPlotter(fs afero.Fs, dir string) *PNGPlotter {
	return &PNGPlotter{fs: fs, dir: dir}
}

// Render draws blue points and a dashed black fitted line and returns the written path.
func (p *PNGPlotter) Render(chart Chart) (string, error) {
	if len(chart.X) != len(chart.Y) {
		return "", fmt.Errorf("chart %s: %d x values for %d y values", chart.File, len(chart.X), len(chart.Y))
	}

	plt := gonumplot.New()
	plt.Title.Text = chart.Title
	plt.X.Label.Text = chart.XLabel
	plt.Y.Label.Text = chart.YLabel
	plt.Add(plotter.NewGrid())

	points := make(plotter.XYs, len(chart.X))
	fitted := make(plotter.XYs, len(chart.X))
	for i := range chart.X {
		points[i].X, points[i].Y = chart.X[i], chart.Y[i]
		fitted[i].X, fitted[i].Y = chart.X[i], chart.Model.Predict(chart.X[i])
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return "", fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)

	line, err := plotter.NewLine(fitted)
	if err != nil {
		return "", fmt.Errorf("failed to build trend line: %w", err)
	}
	line.LineStyle.Color = color.Black
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	plt.Add(scatter, line)

	writer, err := plt.WriterTo(9*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return "", fmt.Errorf("failed to render plot: %w", err)
	}

	if err := p.fs.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(p.dir, chart.File)
	f, err := p.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := writer.WriteTo(f); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
