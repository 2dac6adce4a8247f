package label

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

const (
	// peakEpsilon is the smallest post-smoothing peak considered real.
	// Below it the whole signal is treated as low-confidence.
	peakEpsilon = 1e-6

	// floorThreshold marks the region of the smoothed signal that gets
	// replaced with noise so downstream losses never see hard zeros.
	floorThreshold = 0.1

	// lowConfidence is the flat value substituted when smoothing produced
	// no usable peak.
	lowConfidence = 0.05
)

// ErrDegenerate indicates the built target signal contained NaN or Inf
// after clamping. The file it came from is unusable.
var ErrDegenerate = errors.New("degenerate target signal")

// Band marks the samples from eventIdx-Left through eventIdx+Right
// (inclusive) with Value before smoothing. Bands are applied in order, so
// an inner band listed later overwrites the overlap with an outer one.
type Band struct {
	Left  int     `yaml:"left"`
	Right int     `yaml:"right"`
	Value float64 `yaml:"value"`
}

// Uniform returns the single symmetric band used by the plain regression
// and classification setups: ±radius around the event at full value.
func Uniform(radius int) []Band {
	return []Band{{Left: radius, Right: radius, Value: 1.0}}
}

// Staged returns the graded multi-band schedule of the multi-stage peak
// detector: wide low-confidence bands tightening to a narrow full-value
// core around the event.
func Staged() []Band {
	return []Band{
		{Left: 60, Right: 60, Value: 0.2},
		{Left: 40, Right: 40, Value: 0.4},
		{Left: 25, Right: 25, Value: 0.7},
		{Left: 12, Right: 12, Value: 1.0},
	}
}

// Config holds everything needed to turn an event index into a smoothed,
// normalized target signal.
type Config struct {
	Bands     []Band
	Kernel    Kernel
	NoiseLow  float64 // replacement noise range for floor samples
	NoiseHigh float64
}

// Builder builds smoothed target signals. The random source is injected and
// seeded once by the caller; Build advances it rather than reseeding, so
// repeated calls produce independent floor noise.
type Builder struct {
	cfg Config
	rng *rand.Rand
}

// New creates a Builder. NoiseLow/NoiseHigh default to [0.001, 0.02] when
// both are zero.
func New(cfg Config, rng *rand.Rand) (*Builder, error) {
	if len(cfg.Bands) == 0 {
		return nil, fmt.Errorf("label: no bands configured")
	}
	for _, b := range cfg.Bands {
		if b.Left < 0 || b.Right < 0 {
			return nil, fmt.Errorf("label: negative band radius (%d, %d)", b.Left, b.Right)
		}
		if b.Value < 0 || b.Value > 1 {
			return nil, fmt.Errorf("label: band value %v outside [0, 1]", b.Value)
		}
	}
	if err := cfg.Kernel.validate(); err != nil {
		return nil, err
	}
	if cfg.NoiseLow == 0 && cfg.NoiseHigh == 0 {
		cfg.NoiseLow, cfg.NoiseHigh = 0.001, 0.02
	}
	if cfg.NoiseHigh < cfg.NoiseLow {
		return nil, fmt.Errorf("label: noise range [%v, %v] inverted", cfg.NoiseLow, cfg.NoiseHigh)
	}
	return &Builder{cfg: cfg, rng: rng}, nil
}

// Build returns a target signal of the given length: the configured bands
// placed around eventIdx, Gaussian-smoothed, renormalized to peak 1.0,
// floor-noised, and clamped to [0, 1]. Returns ErrDegenerate if the result
// contains NaN or Inf.
func (b *Builder) Build(length, eventIdx int) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("label: non-positive signal length %d", length)
	}
	if eventIdx < 0 || eventIdx >= length {
		return nil, fmt.Errorf("label: event index %d outside signal of length %d", eventIdx, length)
	}

	raw := make([]float64, length)
	for _, band := range b.cfg.Bands {
		lo := max(0, eventIdx-band.Left)
		hi := min(length-1, eventIdx+band.Right)
		for i := lo; i <= hi; i++ {
			raw[i] = band.Value
		}
	}

	smoothed := convolveReflect(raw, b.cfg.Kernel.taps())

	peak := 0.0
	for _, v := range smoothed {
		if v > peak {
			peak = v
		}
	}
	if peak > peakEpsilon {
		for i := range smoothed {
			smoothed[i] /= peak
		}
	} else {
		for i := range smoothed {
			smoothed[i] = lowConfidence
		}
	}

	for i, v := range smoothed {
		if v <= floorThreshold {
			smoothed[i] = b.cfg.NoiseLow + b.rng.Float64()*(b.cfg.NoiseHigh-b.cfg.NoiseLow)
		}
	}

	for i, v := range smoothed {
		if v < 0 {
			smoothed[i] = 0
		} else if v > 1 {
			smoothed[i] = 1
		}
	}

	for _, v := range smoothed {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrDegenerate
		}
	}
	return smoothed, nil
}

// convolveReflect convolves signal with taps, mirroring the signal at both
// edges (edge sample included) so the output keeps the input's length.
func convolveReflect(signal, taps []float64) []float64 {
	n := len(signal)
	half := len(taps) / 2
	out := make([]float64, n)
	for i := range out {
		var sum float64
		for t, w := range taps {
			j := i + t - half
			if j < 0 {
				j = -j - 1
			} else if j >= n {
				j = 2*n - j - 1
			}
			// Kernels wider than the signal can bounce past the far edge.
			if j < 0 {
				j = 0
			} else if j >= n {
				j = n - 1
			}
			sum += w * signal[j]
		}
		out[i] = sum
	}
	return out
}
