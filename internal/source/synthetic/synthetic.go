// Package synthetic generates deterministic stand-in recordings with a
// known puncture time: an insertion ramp, a Gaussian force transient with a
// sharp post-puncture drop, mild sensor noise, and a two-detection marker
// channel (contact, then puncture). Useful for demos and for exercising the
// pipeline without capture hardware.
package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"

	"github.com/crimson-sun/stylet/internal/model"
	"github.com/crimson-sun/stylet/internal/source"
)

const (
	defaultLength = 4000
	defaultFiles  = 3
)

var defaultDistances = []string{"0600", "0800", "1000"}

func init() {
	source.Register("synthetic", func() source.Source {
		return &Source{}
	})
}

// Source implements source.Source with generated recordings.
type Source struct{}

// Scan lists the synthetic catalog: Extra["files"] recordings (default 3)
// for each configured distance.
func (s *Source) Scan(_ context.Context, cfg source.Config) ([]source.Ref, error) {
	distances := cfg.Distances
	if len(distances) == 0 {
		distances = defaultDistances
	}
	files := defaultFiles
	if v := cfg.Extra["files"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("synthetic: bad files count %q", v)
		}
		files = n
	}

	var refs []source.Ref
	for _, dist := range distances {
		for i := 1; i <= files; i++ {
			refs = append(refs, source.Ref{
				Path:      fmt.Sprintf("synthetic://T2D_%s/SavedData_%03d", dist, i),
				Distance:  dist,
				FileIndex: i,
			})
		}
	}
	return refs, nil
}

// Load generates the recording for ref. Output depends only on the ref, so
// repeated loads are identical.
func (s *Source) Load(_ context.Context, ref source.Ref) (*model.Recording, error) {
	return Generate(ref.Distance, ref.FileIndex, defaultLength), nil
}

// Generate builds one synthetic recording of the given length. The puncture
// lands in the middle third, at a position derived from distance and index.
func Generate(distance string, fileIndex, length int) *model.Recording {
	rng := rand.New(rand.NewSource(seedFor(distance, fileIndex)))

	// Contact early, puncture in the middle third.
	puncture := length/3 + rng.Intn(length/3)
	contact := puncture/4 + rng.Intn(puncture/4)

	rec := &model.Recording{
		Distance:  distance,
		FileIndex: fileIndex,
		Path:      fmt.Sprintf("synthetic://T2D_%s/SavedData_%03d", distance, fileIndex),
	}
	for c := range rec.Channels {
		rec.Channels[c] = make([]float64, length)
	}

	force := rec.Channels[model.ChannelForce]
	for i := range force {
		t := float64(i)
		v := 0.2 + 0.0008*t                    // slow insertion ramp
		v += 0.05 * math.Sin(2*math.Pi*t/600) // breathing-like drift
		if i <= puncture {
			// Force builds toward the membrane as a Gaussian flank.
			v += 1.5 * gauss(t, float64(puncture), 120)
		} else {
			// After puncture the built-up force releases quickly.
			v += 1.5 * gauss(t, float64(puncture), 25)
		}
		v += 0.01 * rng.NormFloat64()
		force[i] = v
	}

	rec.Channels[model.ChannelMarker][contact] = 1
	rec.Channels[model.ChannelMarker][puncture] = 1
	return rec
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func seedFor(distance string, fileIndex int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%d", distance, fileIndex)
	return int64(h.Sum64())
}
