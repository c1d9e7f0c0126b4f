package jet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSide   = errors.New("jet pooling side must have l -OR- r in the name")
	ErrAmbiguousSide = fmt.Errorf("%w: both given", ErrInvalidSide)
	ErrNoSide        = fmt.Errorf("%w: neither given", ErrInvalidSide)
)

// SideEnergy returns the energy left and right of the vertical midline.
// For odd sizes the middle column belongs to neither side.
func (m *Image) SideEnergy() (left, right float64) {
	weight := m.ColumnSums()
	l, r := m.Dim/2, (m.Dim+1)/2
	for _, w := range weight[:l] {
		left += w
	}
	for _, w := range weight[r:] {
		right += w
	}
	return left, right
}

// Flip mirrors a (usually rotated) jet image across the vertical axis so
// that the side named by pool carries the most energy. pool names the side
// by containing "r" (r, R, right, Right, ...) or "l" (l, L, left, ...).
// When the requested side is already heavier img itself is returned;
// otherwise the result is a mirrored copy. img is never modified.
func Flip(img *Image, pool string) (*Image, error) {
	p := strings.ToLower(pool)
	hasR, hasL := strings.Contains(p, "r"), strings.Contains(p, "l")

	switch {
	case hasR && hasL:
		return nil, fmt.Errorf("%w (pool %q)", ErrAmbiguousSide, pool)
	case !hasR && !hasL:
		return nil, fmt.Errorf("%w (pool %q)", ErrNoSide, pool)
	}

	left, right := img.SideEnergy()
	if hasR {
		if right > left {
			return img, nil
		}
		return img.FlipLR(), nil
	}
	if left > right {
		return img, nil
	}
	return img.FlipLR(), nil
}
