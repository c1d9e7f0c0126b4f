// Package jet normalizes jet images (square grids of detector energy
// deposits) before they are fed into analysis or training: rotation,
// left/right flipping and mean-image plots.
package jet

import (
	"errors"
	"fmt"
	"math"
)

// DefaultDim is the side length of a jet image.
const DefaultDim = 25

var ErrShape = errors.New("invalid jet image shape")

// Image is a row-major Dim x Dim grid.
type Image struct {
	Dim int
	Pix []float64
}

func NewImage(dim int) *Image {
	return &Image{Dim: dim, Pix: make([]float64, dim*dim)}
}

// FromFlat wraps a copy of flat as an image. len(flat) must be a perfect
// square.
func FromFlat(flat []float64) (*Image, error) {
	dim := int(math.Round(math.Sqrt(float64(len(flat)))))
	if dim == 0 || dim*dim != len(flat) {
		return nil, fmt.Errorf("%w: %d values is not a square grid", ErrShape, len(flat))
	}
	img := NewImage(dim)
	copy(img.Pix, flat)
	return img, nil
}

func (m *Image) At(r, c int) float64 { return m.Pix[r*m.Dim+c] }

func (m *Image) Set(r, c int, v float64) { m.Pix[r*m.Dim+c] = v }

// FlipLR returns a copy mirrored across the vertical axis.
func (m *Image) FlipLR() *Image {
	out := NewImage(m.Dim)
	for r := 0; r < m.Dim; r++ {
		for c := 0; c < m.Dim; c++ {
			out.Set(r, m.Dim-1-c, m.At(r, c))
		}
	}
	return out
}

// ColumnSums returns the energy profile along the horizontal axis.
func (m *Image) ColumnSums() []float64 {
	sums := make([]float64, m.Dim)
	for r := 0; r < m.Dim; r++ {
		for c := 0; c < m.Dim; c++ {
			sums[c] += m.At(r, c)
		}
	}
	return sums
}

func (m *Image) Sum() float64 {
	var s float64
	for _, v := range m.Pix {
		s += v
	}
	return s
}

func (m *Image) minMax() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range m.Pix {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
