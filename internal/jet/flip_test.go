package jet

import (
	"errors"
	"testing"
)

// sidedImage puts left energy in column 0 and right energy in the last
// column of a 5x5 grid.
func sidedImage(left, right float64) *Image {
	img := NewImage(5)
	img.Set(0, 0, left)
	img.Set(4, 4, right)
	img.Set(2, 2, 100) // middle column counts for neither side
	return img
}

func TestFlipRightMirrorsHeavierLeft(t *testing.T) {
	img := sidedImage(10, 4)

	got, err := Flip(img, "right")
	if err != nil {
		t.Fatalf("Flip returned error: %v", err)
	}
	if got == img {
		t.Fatal("expected a mirrored copy")
	}

	want := img.FlipLR()
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("Flip result differs from FlipLR at %d", i)
		}
	}
	if left, right := got.SideEnergy(); left != 4 || right != 10 {
		t.Fatalf("unexpected side energy after flip: left=%v right=%v", left, right)
	}
	if img.At(0, 0) != 10 {
		t.Fatal("input was modified")
	}
}

func TestFlipKeepsHeavierRequestedSide(t *testing.T) {
	tests := []struct {
		name        string
		left, right float64
		pool        string
		mirrored    bool
	}{
		{"right heavier, pool r", 1, 5, "r", false},
		{"right heavier, pool R", 1, 5, "R", false},
		{"left heavier, pool Left", 5, 1, "Left", false},
		{"right heavier, pool l", 1, 5, "l", true},
		{"equal, pool r", 3, 3, "r", true},
		{"equal, pool left", 3, 3, "left", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := sidedImage(tt.left, tt.right)
			got, err := Flip(img, tt.pool)
			if err != nil {
				t.Fatalf("Flip returned error: %v", err)
			}
			if mirrored := got != img; mirrored != tt.mirrored {
				t.Fatalf("mirrored = %v, want %v", mirrored, tt.mirrored)
			}
		})
	}
}

func TestFlipIdempotent(t *testing.T) {
	for _, pool := range []string{"r", "l"} {
		once, err := Flip(sidedImage(10, 4), pool)
		if err != nil {
			t.Fatalf("Flip returned error: %v", err)
		}
		twice, err := Flip(once, pool)
		if err != nil {
			t.Fatalf("Flip returned error: %v", err)
		}
		if twice != once {
			t.Fatalf("pool %s: second flip changed the image", pool)
		}
	}
}

func TestFlipInvalidPool(t *testing.T) {
	tests := []struct {
		pool string
		want error
	}{
		{"lr", ErrAmbiguousSide},
		{"LeftRight", ErrAmbiguousSide},
		{"x", ErrNoSide},
		{"", ErrNoSide},
	}

	for _, tt := range tests {
		t.Run(tt.pool, func(t *testing.T) {
			_, err := Flip(sidedImage(1, 2), tt.pool)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalidSide) {
				t.Fatalf("expected ErrInvalidSide, got %v", err)
			}
		})
	}
}

func TestSideEnergyEvenSize(t *testing.T) {
	img := NewImage(4)
	for r := 0; r < 4; r++ {
		img.Set(r, 1, 1)
		img.Set(r, 2, 2)
	}

	left, right := img.SideEnergy()
	if left != 4 || right != 8 {
		t.Fatalf("unexpected side energy: left=%v right=%v", left, right)
	}
}
