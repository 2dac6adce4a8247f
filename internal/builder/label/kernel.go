package label

import (
	"fmt"
	"math"
)

// Kernel describes a 1D Gaussian smoothing kernel. SigmaLeft and SigmaRight
// may differ, giving the smoothed peak a sharp flank on one side and a slow
// decay on the other.
type Kernel struct {
	Width      int     `yaml:"width"` // total taps, forced odd
	SigmaLeft  float64 `yaml:"sigma_left"`
	SigmaRight float64 `yaml:"sigma_right"`
}

// Symmetric returns a kernel with the same sigma on both sides.
func Symmetric(width int, sigma float64) Kernel {
	return Kernel{Width: width, SigmaLeft: sigma, SigmaRight: sigma}
}

func (k Kernel) validate() error {
	if k.Width < 3 {
		return fmt.Errorf("label: kernel width %d too small", k.Width)
	}
	if k.SigmaLeft <= 0 || k.SigmaRight <= 0 {
		return fmt.Errorf("label: non-positive sigma (%v, %v)", k.SigmaLeft, k.SigmaRight)
	}
	return nil
}

// taps returns the kernel weights, normalized to sum 1. An even Width is
// widened by one so the kernel has a center tap.
func (k Kernel) taps() []float64 {
	width := k.Width
	if width%2 == 0 {
		width++
	}
	half := width / 2
	taps := make([]float64, width)
	var sum float64
	for i := range taps {
		d := float64(i - half)
		sigma := k.SigmaRight
		if d < 0 {
			sigma = k.SigmaLeft
		}
		taps[i] = math.Exp(-0.5 * d * d / (sigma * sigma))
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}
