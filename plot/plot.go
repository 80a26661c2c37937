// Package plot renders the stack quantities computed by the root abeles
// package (spectra, phase, ellipsometric angles, reflection circles) as
// raster images with gonum/plot, styled with Liberation fonts, evenly
// stepped tick marks and a background grid.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/bob-anderson-ok/abeles"
)

// StepTicks lays out tick marks at even multiples of Step, formatted with
// Format (an fmt verb such as "%.2f").
type StepTicks struct {
	Step   float64
	Format string
}

// Ticks implements plot.Ticker.
func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for v := start; v <= max; v += t.Step {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(t.Format, v)})
	}
	return ticks
}

func newStyledPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()

	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	return p
}

func render(p *plot.Plot, wPx, hPx float64) image.Image {
	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	dc := draw.New(c)
	p.Draw(dc)
	return c.Image()
}

func addSeries(p *plot.Plot, wvls *abeles.Wvls, values []float64, col color.Color) error {
	pts := make(plotter.XYs, wvls.Len())
	for i := range pts {
		pts[i].X = wvls.At(i)
		pts[i].Y = values[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = col
	p.Add(line)
	return nil
}

// Spectrum renders R, T and A against wavelength.
func Spectrum(sp *abeles.Spectrum, wvls *abeles.Wvls, wPx, hPx float64) (image.Image, error) {
	p := newStyledPlot("Reflectance, transmittance, absorptance", "wavelength (nm)", "fraction")
	p.Y.Min, p.Y.Max = -0.05, 1.05
	p.X.Tick.Marker = StepTicks{Step: (wvls.At(wvls.Len()-1) - wvls.At(0)) / 10, Format: "%.0f"}
	p.Y.Tick.Marker = StepTicks{Step: 0.2, Format: "%.1f"}

	if err := addSeries(p, wvls, sp.R, color.RGBA{R: 220, A: 255}); err != nil {
		return nil, err
	}
	if err := addSeries(p, wvls, sp.T, color.RGBA{B: 220, A: 255}); err != nil {
		return nil, err
	}
	if err := addSeries(p, wvls, sp.A, color.RGBA{G: 160, A: 255}); err != nil {
		return nil, err
	}
	return render(p, wPx, hPx), nil
}

// Phase renders unwrapped reflection phase, in radians, against
// wavelength.
func Phase(ph *abeles.Phase, wvls *abeles.Wvls, wPx, hPx float64) (image.Image, error) {
	p := newStyledPlot("Reflection phase", "wavelength (nm)", "phase (rad)")
	if err := addSeries(p, wvls, ph.Value, color.RGBA{R: 220, A: 255}); err != nil {
		return nil, err
	}
	return render(p, wPx, hPx), nil
}

// GroupDelay renders group delay, in femtoseconds, against wavelength.
func GroupDelay(gd *abeles.GroupDelay, wvls *abeles.Wvls, wPx, hPx float64) (image.Image, error) {
	p := newStyledPlot("Group delay", "wavelength (nm)", "group delay (fs)")
	if err := addSeries(p, wvls, gd.Value, color.RGBA{R: 160, B: 160, A: 255}); err != nil {
		return nil, err
	}
	return render(p, wPx, hPx), nil
}

// PsiAndDelta renders the ellipsometric angles, in degrees, against
// wavelength.
func PsiAndDelta(pd *abeles.PsiAndDelta, wvls *abeles.Wvls, wPx, hPx float64) (image.Image, error) {
	p := newStyledPlot("Ellipsometric angles", "wavelength (nm)", "degrees")
	if err := addSeries(p, wvls, pd.Psi, color.RGBA{R: 220, A: 255}); err != nil {
		return nil, err
	}
	if err := addSeries(p, wvls, pd.Delta, color.RGBA{B: 220, A: 255}); err != nil {
		return nil, err
	}
	return render(p, wPx, hPx), nil
}

// Circle renders the complex reflection-amplitude trace of c as a
// parametric curve in the complex plane (a reflection-circle / admittance
// -locus style diagram).
func Circle(c *abeles.Circle, wvls *abeles.Wvls, wPx, hPx float64) (image.Image, error) {
	p := newStyledPlot("Reflection circle", "Re(r)", "Im(r)")
	p.X.Min, p.X.Max = -1.1, 1.1
	p.Y.Min, p.Y.Max = -1.1, 1.1

	pts := make(plotter.XYs, wvls.Len())
	for i := range pts {
		pts[i].X = real(c.R[i])
		pts[i].Y = imag(c.R[i])
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 220, A: 255}
	p.Add(line)

	return render(p, wPx, hPx), nil
}
