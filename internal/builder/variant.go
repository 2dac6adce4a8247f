package builder

import (
	"math/rand"

	"github.com/crimson-sun/stylet/internal/builder/label"
	"github.com/crimson-sun/stylet/internal/builder/window"
	"github.com/crimson-sun/stylet/internal/config"
)

// NewFromVariant assembles a Builder from a variant recipe. The random
// source feeds the label stage's floor noise and is seeded once by the
// caller.
func NewFromVariant(v config.Variant, rng *rand.Rand) (*Builder, error) {
	lb, err := label.New(label.Config{
		Bands:     v.Bands,
		Kernel:    v.Kernel,
		NoiseLow:  v.NoiseLow,
		NoiseHigh: v.NoiseHigh,
	}, rng)
	if err != nil {
		return nil, err
	}

	ref := window.End
	if v.Reference == "center" {
		ref = window.Center
	}
	win := window.Config{
		SeqLen:     v.SeqLen,
		Stride:     v.Stride,
		Ref:        ref,
		MinWindows: v.MinWindows,
	}
	return New(lb, win, v.Correction), nil
}
