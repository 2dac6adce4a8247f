package stylet

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/crimson-sun/stylet/internal/builder"
	"github.com/crimson-sun/stylet/internal/builder/label"
	"github.com/crimson-sun/stylet/internal/builder/window"
	"github.com/crimson-sun/stylet/internal/config"
	"github.com/crimson-sun/stylet/internal/model"
	"github.com/crimson-sun/stylet/internal/source"
	"github.com/crimson-sun/stylet/internal/source/binfile"
)

// Sentinel conditions a caller is expected to match with errors.Is and
// treat as "skip this file".
var (
	ErrInsufficientEvents = model.ErrInsufficientEvents
	ErrDegenerate         = label.ErrDegenerate
	ErrTooFewWindows      = window.ErrTooFewWindows
)

// Stylet builds window datasets from recordings with one fixed variant
// recipe. Not safe for concurrent use; see the package documentation.
type Stylet struct {
	builder *builder.Builder
	files   *binfile.Source
}

// New creates a Stylet from a preset and optional overrides.
func New(opts ...Option) (*Stylet, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v, err := config.LoadVariant(o.preset, o.variantFile)
	if err != nil {
		return nil, fmt.Errorf("stylet: %w", err)
	}
	if o.seqLen > 0 {
		v.SeqLen = o.seqLen
	}
	if o.stride > 0 {
		v.Stride = o.stride
	}
	if o.reference != "" {
		v.Reference = o.reference
	}
	if o.minWindows > 0 {
		v.MinWindows = o.minWindows
	}
	if o.seedSet {
		v.Seed = o.seed
	}

	b, err := builder.NewFromVariant(v, rand.New(rand.NewSource(v.Seed)))
	if err != nil {
		return nil, fmt.Errorf("stylet: %w", err)
	}
	return &Stylet{builder: b, files: &binfile.Source{}}, nil
}

// Build derives window samples from a force trace and its event marker
// channel. The two must have equal length; the marker channel must hold
// exactly 0/1 values with at least two detections.
func (s *Stylet) Build(force, marker []float64) ([]Sample, error) {
	if len(force) != len(marker) {
		return nil, fmt.Errorf("stylet: force length %d != marker length %d", len(force), len(marker))
	}
	for _, v := range marker {
		if v != 0 && v != 1 {
			return nil, errors.New("stylet: marker channel must be 0/1")
		}
	}

	rec := &model.Recording{Path: "(in-memory)"}
	for c := range rec.Channels {
		rec.Channels[c] = make([]float64, len(force))
	}
	copy(rec.Channels[model.ChannelForce], force)
	copy(rec.Channels[model.ChannelMarker], marker)

	res, err := s.builder.Process(rec)
	if err != nil {
		return nil, err
	}
	return fromModel(res.Samples), nil
}

// BuildFile reads one raw capture file (little-endian float32, row-major
// N×5) and derives its window samples.
func (s *Stylet) BuildFile(path string) ([]Sample, error) {
	rec, err := s.files.Load(context.Background(), source.Ref{Path: path})
	if err != nil {
		return nil, err
	}
	res, err := s.builder.Process(rec)
	if err != nil {
		return nil, err
	}
	return fromModel(res.Samples), nil
}

// TargetSignal returns only the smoothed target signal for a marker
// channel, without slicing windows. Useful for inspecting label quality.
func (s *Stylet) TargetSignal(force, marker []float64) ([]float64, error) {
	if len(force) != len(marker) {
		return nil, fmt.Errorf("stylet: force length %d != marker length %d", len(force), len(marker))
	}
	rec := &model.Recording{Path: "(in-memory)"}
	for c := range rec.Channels {
		rec.Channels[c] = make([]float64, len(force))
	}
	copy(rec.Channels[model.ChannelForce], force)
	copy(rec.Channels[model.ChannelMarker], marker)

	res, err := s.builder.Process(rec)
	if err != nil {
		return nil, err
	}
	return res.Target, nil
}
