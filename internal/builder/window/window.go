package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/crimson-sun/stylet/internal/model"
)

// ErrTooFewWindows indicates a recording yielded fewer usable windows than
// the configured floor. The whole file is discarded in that case.
var ErrTooFewWindows = errors.New("too few usable windows")

// Reference selects which index of a window the target value is read at.
type Reference int

const (
	// End pairs the window ending at j with the target at j.
	End Reference = iota
	// Center pairs the window starting at j with the target at j + SeqLen/2.
	Center
)

// Config parameterizes window slicing.
type Config struct {
	SeqLen     int
	Stride     int       // 1 for exhaustive sliding, larger for sparse sampling
	Ref        Reference
	MinWindows int // 0 disables the floor
}

func (c Config) validate() error {
	if c.SeqLen <= 0 {
		return fmt.Errorf("window: non-positive seq len %d", c.SeqLen)
	}
	if c.Stride < 1 {
		return fmt.Errorf("window: stride %d < 1", c.Stride)
	}
	return nil
}

// Baseline returns a copy of signal with its first sample subtracted from
// every element, fixing the series to start at exactly 0.
func Baseline(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}
	out := make([]float64, len(signal))
	first := signal[0]
	for i, v := range signal {
		out[i] = v - first
	}
	return out
}

// Slice cuts fixed-length windows out of the baseline signal and pairs each
// with the target value at its reference index. Windows or targets holding
// NaN/Inf are dropped silently. Returns ErrTooFewWindows (wrapped, with
// counts) when fewer than MinWindows samples survive.
//
// Each emitted Sample carries its RefIndex; provenance fields are filled by
// the caller.
func Slice(baseline, target []float64, cfg Config) ([]model.Sample, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(baseline) != len(target) {
		return nil, fmt.Errorf("window: signal length %d != target length %d", len(baseline), len(target))
	}
	n := len(baseline)
	if n < 2*cfg.SeqLen {
		return nil, fmt.Errorf("window: signal length %d too short for seq len %d: %w", n, cfg.SeqLen, ErrTooFewWindows)
	}

	var samples []model.Sample
	for j := cfg.SeqLen; j <= n-cfg.SeqLen; j += cfg.Stride {
		var x []float64
		var ref int
		switch cfg.Ref {
		case Center:
			x = baseline[j : j+cfg.SeqLen]
			ref = j + cfg.SeqLen/2
		default:
			x = baseline[j-cfg.SeqLen : j]
			ref = j
		}
		y := target[ref]
		if !finite(x) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xc := make([]float64, cfg.SeqLen)
		copy(xc, x)
		samples = append(samples, model.Sample{RefIndex: ref, X: xc, Y: y})
	}

	if len(samples) < cfg.MinWindows {
		return nil, fmt.Errorf("window: %d usable windows, floor is %d: %w", len(samples), cfg.MinWindows, ErrTooFewWindows)
	}
	return samples, nil
}

func finite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
