package bench

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	staticColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	rollingColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// WriteFigure renders the two-panel comparison figure (RMSE and skill by
// horizon, static vs rolling-origin) as a PNG.
func WriteFigure(c *Comparison, path string) error {
	rmsePanel, err := newPanel(c, "(a) Forecast Error", "RMSE (µg/m³)",
		func(r HorizonResult) float64 { return r.RMSE })
	if err != nil {
		return err
	}

	skillPanel, err := newPanel(c, "(b) Skill Score", "Skill score vs. persistence",
		func(r HorizonResult) float64 { return r.Skill })
	if err != nil {
		return err
	}

	// H* threshold line on the skill panel.
	zero := plotter.NewFunction(func(x float64) float64 { return 0 })
	zero.LineStyle.Color = color.Black
	zero.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	skillPanel.Add(zero)

	img := vgimg.PngCanvas{Canvas: vgimg.New(12*vg.Inch, 5*vg.Inch)}
	dc := draw.New(img)

	panels := [][]*plot.Plot{{rmsePanel, skillPanel}}
	canvases := plot.Align(panels, draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Inch / 2}, dc)
	rmsePanel.Draw(canvases[0][0])
	skillPanel.Draw(canvases[0][1])

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if _, err := img.WriteTo(file); err != nil {
		return fmt.Errorf("writing figure: %w", err)
	}
	return nil
}

func newPanel(c *Comparison, title, yLabel string, value func(HorizonResult) float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Forecast horizon (hours)"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true

	staticLine, err := lineFor(c.Horizons, c.Static, value, staticColor)
	if err != nil {
		return nil, err
	}
	rollingLine, err := lineFor(c.Horizons, c.Rolling, value, rollingColor)
	if err != nil {
		return nil, err
	}
	rollingLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(staticLine, rollingLine)
	p.Legend.Add("Static (leaky)", staticLine)
	p.Legend.Add("Rolling-origin (causal)", rollingLine)
	return p, nil
}

func lineFor(horizons []int, results map[int]HorizonResult, value func(HorizonResult) float64, c color.Color) (*plotter.Line, error) {
	pts := make(plotter.XYs, 0, len(horizons))
	for _, h := range horizons {
		r, ok := results[h]
		if !ok {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(h), Y: value(r)})
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("building line: %w", err)
	}
	line.LineStyle.Color = c
	return line, nil
}
