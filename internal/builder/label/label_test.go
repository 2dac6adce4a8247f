package label

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func newTestBuilder(t *testing.T, cfg Config, seed int64) *Builder {
	t.Helper()
	b, err := New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return b
}

func uniformConfig() Config {
	return Config{Bands: Uniform(20), Kernel: Symmetric(51, 10)}
}

func TestBuildBounds(t *testing.T) {
	b := newTestBuilder(t, uniformConfig(), 1)
	target, err := b.Build(1000, 500)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(target) != 1000 {
		t.Fatalf("got length %d, want 1000", len(target))
	}
	for i, v := range target {
		if v < 0 || v > 1 {
			t.Fatalf("target[%d] = %v outside [0, 1]", i, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("target[%d] = %v is not finite", i, v)
		}
	}
}

func TestBuildPeaksAtEvent(t *testing.T) {
	b := newTestBuilder(t, uniformConfig(), 1)
	target, err := b.Build(1000, 500)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if target[500] != 1.0 {
		t.Fatalf("target[500] = %v, want exactly 1.0", target[500])
	}
	for i, v := range target {
		if v > target[500] {
			t.Fatalf("target[%d] = %v exceeds the event-index value %v", i, v, target[500])
		}
	}
}

// With a symmetric kernel the smoothed target must decay monotonically
// away from the event on both sides, until it reaches the noise floor.
func TestBuildMonotoneDecay(t *testing.T) {
	b := newTestBuilder(t, uniformConfig(), 1)
	target, err := b.Build(1000, 500)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	for i := 500; i < 999 && target[i+1] > floorThreshold; i++ {
		if target[i+1] > target[i] {
			t.Fatalf("right flank rises at %d: %v -> %v", i, target[i], target[i+1])
		}
	}
	for i := 500; i > 0 && target[i-1] > floorThreshold; i-- {
		if target[i-1] > target[i] {
			t.Fatalf("left flank rises at %d: %v -> %v", i, target[i], target[i-1])
		}
	}
}

func TestBuildFloorIsNoisedNotZero(t *testing.T) {
	cfg := uniformConfig()
	cfg.NoiseLow, cfg.NoiseHigh = 0.001, 0.02
	b := newTestBuilder(t, cfg, 1)
	target, err := b.Build(2000, 1000)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	// Far from the event the pre-noise value is ~0; it must have been
	// replaced with noise in [0.001, 0.02], never left at exactly zero.
	for _, i := range []int{0, 10, 1990} {
		if target[i] == 0 {
			t.Fatalf("target[%d] is exactly zero", i)
		}
		if target[i] < cfg.NoiseLow || target[i] > cfg.NoiseHigh {
			t.Fatalf("target[%d] = %v outside noise range [%v, %v]", i, target[i], cfg.NoiseLow, cfg.NoiseHigh)
		}
	}
}

func TestBuildDeterministicPerSeed(t *testing.T) {
	a := newTestBuilder(t, uniformConfig(), 7)
	b := newTestBuilder(t, uniformConfig(), 7)

	ta, err := a.Build(1000, 400)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	tb, err := b.Build(1000, 400)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for i := range ta {
		if ta[i] != tb[i] {
			t.Fatalf("same seed diverges at %d: %v != %v", i, ta[i], tb[i])
		}
	}

	// The generator advances: a second build on the same builder must not
	// replay the first build's floor noise.
	tc, err := a.Build(1000, 400)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	same := true
	for i := range ta {
		if ta[i] != tc[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("second build replayed the first build's noise")
	}
}

func TestBuildStagedGrading(t *testing.T) {
	cfg := Config{Bands: Staged(), Kernel: Symmetric(31, 4)}
	b := newTestBuilder(t, cfg, 1)
	target, err := b.Build(2000, 1000)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if target[1000] != 1.0 {
		t.Fatalf("core value = %v, want 1.0", target[1000])
	}
	// Values sampled mid-band, outside the smoothing transition zones,
	// must reflect the band grading.
	if target[1000] <= target[1020] {
		t.Fatalf("core %v not above 0.7-band %v", target[1000], target[1020])
	}
	if target[1020] <= target[1033] {
		t.Fatalf("0.7-band %v not above 0.4-band %v", target[1020], target[1033])
	}
	if target[1033] <= target[1052] {
		t.Fatalf("0.4-band %v not above 0.2-band %v", target[1033], target[1052])
	}
}

func TestBuildAsymmetricKernelSkews(t *testing.T) {
	cfg := Config{
		Bands:  Uniform(5),
		Kernel: Kernel{Width: 101, SigmaLeft: 4, SigmaRight: 20},
	}
	b := newTestBuilder(t, cfg, 1)
	target, err := b.Build(2000, 1000)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	// SigmaRight spreads right-tap mass ahead of the peak: the rise toward
	// the event is slow and the decay after it sharp, so equidistant
	// points before the event sit higher than after it.
	if target[960] <= target[1040] {
		t.Fatalf("expected skew: target[960]=%v <= target[1040]=%v", target[960], target[1040])
	}
}

func TestBuildNoPeakYieldsFlatLowConfidence(t *testing.T) {
	// A zero-value band smooths to all zeros, below peakEpsilon.
	cfg := Config{Bands: []Band{{Left: 5, Right: 5, Value: 0}}, Kernel: Symmetric(11, 2)}
	b := newTestBuilder(t, cfg, 1)
	target, err := b.Build(500, 250)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	// The flat low-confidence constant sits under the floor threshold, so
	// every sample ends up noise-replaced, but never zero and never high.
	for i, v := range target {
		if v == 0 || v > floorThreshold {
			t.Fatalf("target[%d] = %v, want floor noise", i, v)
		}
	}
}

func TestBuildEventIndexValidation(t *testing.T) {
	b := newTestBuilder(t, uniformConfig(), 1)
	if _, err := b.Build(100, 100); err == nil {
		t.Fatal("expected error for event index at length")
	}
	if _, err := b.Build(100, -1); err == nil {
		t.Fatal("expected error for negative event index")
	}
	if _, err := b.Build(0, 0); err == nil {
		t.Fatal("expected error for empty signal")
	}
}

// Events at the very edge still produce a valid signal: the reflect
// padding shifts the apparent peak into the clipped band, but the result
// stays renormalized to 1.0 and inside bounds.
func TestBuildEventNearEdge(t *testing.T) {
	b := newTestBuilder(t, uniformConfig(), 1)
	for _, idx := range []int{0, 3, 996, 999} {
		target, err := b.Build(1000, idx)
		if err != nil {
			t.Fatalf("Build(%d) error: %v", idx, err)
		}
		peak := 0.0
		for i, v := range target {
			if v < 0 || v > 1 {
				t.Fatalf("Build(%d): target[%d] = %v outside [0, 1]", idx, i, v)
			}
			if v > peak {
				peak = v
			}
		}
		if peak != 1.0 {
			t.Fatalf("Build(%d): max = %v, want 1.0", idx, peak)
		}
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := []Config{
		{Kernel: Symmetric(51, 10)},                                       // no bands
		{Bands: Uniform(-1), Kernel: Symmetric(51, 10)},                   // negative radius
		{Bands: []Band{{Left: 1, Right: 1, Value: 2}}, Kernel: Symmetric(51, 10)}, // value > 1
		{Bands: Uniform(5), Kernel: Symmetric(1, 10)},                     // width too small
		{Bands: Uniform(5), Kernel: Kernel{Width: 11, SigmaLeft: 0, SigmaRight: 1}},
		{Bands: Uniform(5), Kernel: Symmetric(11, 2), NoiseLow: 0.5, NoiseHigh: 0.1},
	}
	for i, cfg := range cases {
		if _, err := New(cfg, rng); err == nil {
			t.Errorf("case %d: expected config error", i)
		}
	}
}

func TestErrDegenerateIsSentinel(t *testing.T) {
	if !errors.Is(ErrDegenerate, ErrDegenerate) {
		t.Fatal("sentinel mismatch")
	}
}
