package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Trajectory returns a two column matrix with times in the first column and
// column col of m in the second one. It returns error if times and m row count differ.
func Trajectory(times []float64, m mat.Matrix, col int) (*mat.Dense, error) {
	r, c := m.Dims()
	if r != len(times) {
		return nil, fmt.Errorf("invalid data dimensions: %d times, %d rows", len(times), r)
	}

	if col < 0 || col >= c {
		return nil, fmt.Errorf("invalid column: %d", col)
	}

	data := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		data.Set(i, 0, times[i])
		data.Set(i, 1, m.At(i, col))
	}

	return data, nil
}

// NewTrajectoryPlot creates new plot of a simulated trajectory from the three data sources:
// latent:  true latent state values
// measure: measurement values
// filter:  predicted values
// Each data source is a two column matrix of times and values; see Trajectory.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * either of the supplied data matrices is nil
// * either of the supplied data matrices does not have exactly 2 columns
// * gonum plot fails to be created
func NewTrajectoryPlot(title string, latent, measure, filter *mat.Dense) (*plot.Plot, error) {
	if latent == nil || measure == nil || filter == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	for _, m := range []*mat.Dense{latent, measure, filter} {
		if _, c := m.Dims(); c != 2 {
			return nil, fmt.Errorf("invalid data dimensions: %d columns", c)
		}
	}

	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Value"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// latent state is drawn as a line
	latentLine, err := plotter.NewLine(makePoints(latent))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %w", err)
	}
	latentLine.LineStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	latentLine.LineStyle.Width = vg.Points(1)

	p.Add(latentLine)
	p.Legend.Add("latent", latentLine)

	// Make a scatter plotter for measurement data
	measScatter, err := plotter.NewScatter(makePoints(measure))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %w", err)
	}
	measScatter.GlyphStyle.Color = color.RGBA{G: 255, A: 128}
	measScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(measScatter)
	p.Legend.Add("measurement", measScatter)

	// Make a scatter plotter for filter data
	filterScatter, err := plotter.NewScatter(makePoints(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %w", err)
	}
	filterScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169}
	filterScatter.Shape = draw.CrossGlyph{}
	filterScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(filterScatter)
	p.Legend.Add("predicted", filterScatter)

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
