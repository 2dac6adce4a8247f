// Package builder turns one raw recording into supervised window samples:
// anomaly correction, puncture lookup, target-signal construction, baseline
// subtraction, and window slicing, in that order. Each call is a pure
// per-file transformation; nothing is cached across recordings.
package builder

import (
	"fmt"

	"github.com/crimson-sun/stylet/internal/builder/correct"
	"github.com/crimson-sun/stylet/internal/builder/label"
	"github.com/crimson-sun/stylet/internal/builder/window"
	"github.com/crimson-sun/stylet/internal/model"
)

// Builder orchestrates the correct → label → window stages.
type Builder struct {
	label   *label.Builder
	window  window.Config
	correct correct.Config
}

// New creates a Builder from the configured stages.
func New(lb *label.Builder, win window.Config, cor correct.Config) *Builder {
	return &Builder{label: lb, window: win, correct: cor}
}

// FileResult holds one recording's derived data: the smoothed target signal
// over the full time axis and the window samples cut from it.
type FileResult struct {
	Target  []float64
	Samples []model.Sample
}

// Process builds the target signal and window samples for one recording.
// Mutates rec only through the anomaly-correction stage. Skippable
// conditions surface as model.ErrInsufficientEvents, label.ErrDegenerate,
// or window.ErrTooFewWindows; callers match with errors.Is and drop the
// file.
func (b *Builder) Process(rec *model.Recording) (FileResult, error) {
	if err := correct.Apply(rec, b.correct); err != nil {
		return FileResult{}, fmt.Errorf("builder: %s: %w", rec.Path, err)
	}

	puncture, err := rec.PunctureIndex()
	if err != nil {
		return FileResult{}, fmt.Errorf("builder: %s: %w", rec.Path, err)
	}

	target, err := b.label.Build(rec.Len(), puncture)
	if err != nil {
		return FileResult{}, fmt.Errorf("builder: %s: %w", rec.Path, err)
	}

	baseline := window.Baseline(rec.Force())
	samples, err := window.Slice(baseline, target, b.window)
	if err != nil {
		return FileResult{}, fmt.Errorf("builder: %s: %w", rec.Path, err)
	}

	for i := range samples {
		samples[i].Distance = rec.Distance
		samples[i].FileIndex = rec.FileIndex
	}
	return FileResult{Target: target, Samples: samples}, nil
}
