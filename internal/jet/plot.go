package jet

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Fixed log-scale range of mean-image plots.
const (
	PlotVMin = 1e-5
	PlotVMax = 1.0
)

const (
	figureSize = 800 // 8in at 100dpi
	plotSize   = 680
	plotTop    = 80
)

// viridis sampled at nine evenly spaced stops.
var viridis = []color.NRGBA{
	{68, 1, 84, 255},
	{71, 44, 122, 255},
	{59, 81, 139, 255},
	{44, 113, 142, 255},
	{33, 144, 141, 255},
	{39, 173, 129, 255},
	{92, 200, 99, 255},
	{170, 220, 50, 255},
	{253, 231, 37, 255},
}

// Figure is a rendered mean-image plot.
type Figure struct {
	Title  string
	Mean   *Image
	Canvas *image.NRGBA
}

// PlotMean averages field across records and renders the mean image as a
// log-scaled heatmap titled title.
func PlotMean(records []Record, field, title string) (*Figure, error) {
	mean, err := Mean(records, field)
	if err != nil {
		return nil, fmt.Errorf("mean image: %w", err)
	}
	return &Figure{
		Title:  title,
		Mean:   mean,
		Canvas: render(mean, title),
	}, nil
}

// Save writes the figure; the format follows the file extension.
func (f *Figure) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := imaging.Save(f.Canvas, path); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Heatmap maps img onto viridis with a logarithmic norm over [vmin, vmax],
// one pixel per cell. Non-positive cells are transparent.
func Heatmap(img *Image, vmin, vmax float64) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Dim, img.Dim))
	lo, hi := math.Log10(vmin), math.Log10(vmax)
	for r := 0; r < img.Dim; r++ {
		for c := 0; c < img.Dim; c++ {
			v := img.At(r, c)
			if v <= 0 || math.IsNaN(v) {
				continue
			}
			out.SetNRGBA(c, r, colormap((math.Log10(v)-lo)/(hi-lo)))
		}
	}
	return out
}

func colormap(t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	if i >= len(viridis)-1 {
		return viridis[len(viridis)-1]
	}
	frac := pos - float64(i)
	a, b := viridis[i], viridis[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.NRGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

func render(mean *Image, title string) *image.NRGBA {
	canvas := imaging.New(figureSize, figureSize, color.White)

	heat := imaging.Resize(Heatmap(mean, PlotVMin, PlotVMax), plotSize, plotSize, imaging.NearestNeighbor)
	canvas = imaging.Overlay(canvas, heat, image.Pt((figureSize-plotSize)/2, plotTop), 1.0)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	x := (figureSize - d.MeasureString(title).Round()) / 2
	d.Dot = fixed.P(x, plotTop/2)
	d.DrawString(title)
	return canvas
}
