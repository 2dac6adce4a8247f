// Package pipeline drives the batch build: scan a source, build each
// recording independently, write the pooled samples. Per-file failures are
// logged and skipped; the run as a whole fails only when nothing at all was
// usable.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/stylet/internal/builder"
	"github.com/crimson-sun/stylet/internal/builder/label"
	"github.com/crimson-sun/stylet/internal/builder/window"
	"github.com/crimson-sun/stylet/internal/fewshot"
	"github.com/crimson-sun/stylet/internal/metrics"
	"github.com/crimson-sun/stylet/internal/model"
	"github.com/crimson-sun/stylet/internal/output"
	"github.com/crimson-sun/stylet/internal/source"
)

// ErrNoUsableFiles is returned when a run produced zero samples because
// every scanned recording was skipped. Downstream training on an empty
// dataset fails opaquely, so this condition is surfaced here instead.
var ErrNoUsableFiles = errors.New("no usable recordings")

// Skip reasons, as logged and exported via metrics.
const (
	SkipUnreadable         = "unreadable"
	SkipInsufficientEvents = "insufficient_events"
	SkipDegenerateSignal   = "degenerate_signal"
	SkipTooFewWindows      = "too_few_windows"
	SkipEmpty              = "empty"
	SkipBuildFailed        = "build_failed"
)

// Pipeline connects a source, a builder, and an output.
type Pipeline struct {
	source  source.Source
	builder *builder.Builder
	out     output.Output
}

// New creates a Pipeline from the given components.
func New(src source.Source, b *builder.Builder, out output.Output) *Pipeline {
	return &Pipeline{source: src, builder: b, out: out}
}

// Summary reports what a run did.
type Summary struct {
	FilesScanned int
	FilesUsed    int
	Skipped      map[string]int // reason → count
	Samples      int
}

func (s Summary) String() string {
	return fmt.Sprintf("scanned=%d used=%d samples=%d skipped=%v",
		s.FilesScanned, s.FilesUsed, s.Samples, s.Skipped)
}

// Run scans the source and builds every recording, writing all samples to
// the output as one pooled dataset. Returns ErrNoUsableFiles when no file
// survived the skip taxonomy; any single output write error aborts the run.
func (p *Pipeline) Run(ctx context.Context, cfg source.Config) (Summary, error) {
	return p.run(ctx, cfg, nil)
}

// RunTasks is Run for the few-shot setup: samples are additionally grouped
// into one FileTask per recording, preserving file boundaries for
// support/query splitting downstream.
func (p *Pipeline) RunTasks(ctx context.Context, cfg source.Config) ([]model.FileTask, Summary, error) {
	var tasks []model.FileTask
	summary, err := p.run(ctx, cfg, func(rec *model.Recording, res builder.FileResult) {
		tasks = append(tasks, fewshot.NewTask(rec.Distance, rec.FileIndex, res.Samples))
	})
	return tasks, summary, err
}

func (p *Pipeline) run(ctx context.Context, cfg source.Config, onFile func(*model.Recording, builder.FileResult)) (Summary, error) {
	summary := Summary{Skipped: map[string]int{}}

	refs, err := p.source.Scan(ctx, cfg)
	if err != nil {
		return summary, fmt.Errorf("pipeline scan: %w", err)
	}
	summary.FilesScanned = len(refs)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec, err := p.source.Load(ctx, ref)
		if err != nil {
			p.skip(&summary, ref.Path, SkipUnreadable, err)
			continue
		}

		start := time.Now()
		res, err := p.builder.Process(rec)
		metrics.BuildDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			p.skip(&summary, ref.Path, skipReason(err), err)
			continue
		}
		if len(res.Samples) == 0 {
			p.skip(&summary, ref.Path, SkipEmpty, errors.New("zero usable windows"))
			continue
		}

		for _, sample := range res.Samples {
			if err := p.out.Write(ctx, sample); err != nil {
				return summary, fmt.Errorf("pipeline output: %w", err)
			}
		}
		summary.FilesUsed++
		summary.Samples += len(res.Samples)
		metrics.FilesProcessed.Inc()
		metrics.SamplesEmitted.Add(float64(len(res.Samples)))
		slog.Debug("recording built", "path", ref.Path, "samples", len(res.Samples))

		if onFile != nil {
			onFile(rec, res)
		}
	}

	if summary.FilesUsed == 0 {
		return summary, fmt.Errorf("pipeline: scanned %d files: %w", summary.FilesScanned, ErrNoUsableFiles)
	}
	return summary, nil
}

// skip records one dropped file. Skips are deliberate data loss: visible in
// logs and counters, never fatal to the run.
func (p *Pipeline) skip(summary *Summary, path, reason string, err error) {
	summary.Skipped[reason]++
	metrics.FilesSkipped.WithLabelValues(reason).Inc()
	slog.Warn("recording skipped", "path", path, "reason", reason, "error", err)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientEvents):
		return SkipInsufficientEvents
	case errors.Is(err, label.ErrDegenerate):
		return SkipDegenerateSignal
	case errors.Is(err, window.ErrTooFewWindows):
		return SkipTooFewWindows
	default:
		return SkipBuildFailed
	}
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.out.Close()
}
