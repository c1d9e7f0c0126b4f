package jet

import (
	"errors"
	"fmt"
	"math"
)

// DefaultNormalizer is the energy ceiling jet images are clipped to.
const DefaultNormalizer = 1800

var ErrNormalizer = errors.New("normalizer must be positive")

type RotateOptions struct {
	InRadians  bool    // angle is given in radians
	Normalizer float64 // clipping ceiling, also the divisor
	Dim        int     // side length of the square grid
}

func DefaultRotateOptions() RotateOptions {
	return RotateOptions{InRadians: true, Normalizer: DefaultNormalizer, Dim: DefaultDim}
}

// Rotate takes a flat, unrotated jet image and rotates it by angle using
// cubic interpolation.
//
// The values of jet are clipped in place to [-1, Normalizer]. The grid is
// then transposed, flipped vertically and divided by Normalizer before the
// rotation. The result is a new image.
func Rotate(jet []float64, angle float64, opts RotateOptions) (*Image, error) {
	if opts.Normalizer == 0 {
		opts.Normalizer = DefaultNormalizer
	}
	if opts.Dim == 0 {
		opts.Dim = DefaultDim
	}
	if opts.Normalizer < 0 || math.IsNaN(opts.Normalizer) {
		return nil, fmt.Errorf("%w (got %v)", ErrNormalizer, opts.Normalizer)
	}
	n := opts.Dim
	if n < 0 {
		return nil, fmt.Errorf("%w: negative dim %d", ErrShape, n)
	}
	if len(jet) != n*n {
		return nil, fmt.Errorf("%w: cannot reshape %d values into %dx%d", ErrShape, len(jet), n, n)
	}

	for i, v := range jet {
		jet[i] = math.Max(-1, math.Min(opts.Normalizer, v))
	}

	norm := NewImage(n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			norm.Set(r, c, jet[c*n+(n-1-r)]/opts.Normalizer)
		}
	}

	if opts.InRadians {
		angle = angle * 180 / math.Pi
	}
	return rotateCubic(norm, angle), nil
}

// rotateCubic rotates src by deg degrees about its centre. Each output
// pixel is sampled from the input with cubic convolution (a = -0.5).
// Positions outside the grid read 0, and so do neighbours beyond the
// edge of an inside position. The output is clipped to the input's
// value range since cubic interpolation overshoots.
func rotateCubic(src *Image, deg float64) *Image {
	n := src.Dim
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	center := float64(n-1) / 2

	out := NewImage(n)
	for r := 0; r < n; r++ {
		dy := float64(r) - center
		for c := 0; c < n; c++ {
			dx := float64(c) - center
			x := cos*dx - sin*dy + center
			y := sin*dx + cos*dy + center
			out.Set(r, c, sampleCubic(src, y, x))
		}
	}

	lo, hi := src.minMax()
	keepFill := lo > 0 || hi < 0
	for i, v := range out.Pix {
		if keepFill && v == 0 {
			continue
		}
		out.Pix[i] = math.Max(lo, math.Min(hi, v))
	}
	return out
}

// edgeTolerance absorbs rounding in the rotation matrix so that edge
// pixels mapped onto themselves are not treated as outside.
const edgeTolerance = 1e-9

func sampleCubic(src *Image, y, x float64) float64 {
	last := float64(src.Dim-1) + edgeTolerance
	if y < -edgeTolerance || y > last || x < -edgeTolerance || x > last {
		return 0
	}

	r0, c0 := math.Floor(y), math.Floor(x)
	wy := cubicWeights(y - r0)
	wx := cubicWeights(x - c0)

	var v float64
	for i := 0; i < 4; i++ {
		r := int(r0) - 1 + i
		if r < 0 || r >= src.Dim || wy[i] == 0 {
			continue
		}
		for j := 0; j < 4; j++ {
			c := int(c0) - 1 + j
			if c < 0 || c >= src.Dim || wx[j] == 0 {
				continue
			}
			v += wy[i] * wx[j] * src.At(r, c)
		}
	}
	return v
}

// cubicWeights returns the Catmull-Rom weights of the neighbours at
// offsets -1, 0, 1, 2 for a fractional position t in [0, 1).
func cubicWeights(t float64) [4]float64 {
	return [4]float64{
		((-0.5*t+1)*t - 0.5) * t,
		(1.5*t-2.5)*t*t + 1,
		((-1.5*t+2)*t + 0.5) * t,
		(0.5*t - 0.5) * t * t,
	}
}
