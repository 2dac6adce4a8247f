// Package fewshot treats each recording file as one adaptation task: a
// support subset tunes a model to the file's sensor characteristics, a
// disjoint query subset measures the adapted model.
package fewshot

import (
	"fmt"
	"math/rand"

	"github.com/crimson-sun/stylet/internal/model"
)

// Config sets the support/query sizes of a task split.
type Config struct {
	Support int `yaml:"support"`
	Query   int `yaml:"query"`
}

// Split is one task's sampled support and query sets. The two are always
// disjoint.
type Split struct {
	Support []model.Sample
	Query   []model.Sample
}

// NewTask wraps one file's samples as a FileTask.
func NewTask(distance string, fileIndex int, samples []model.Sample) model.FileTask {
	return model.FileTask{
		TaskID:    fmt.Sprintf("T2D_%s/%03d", distance, fileIndex),
		Distance:  distance,
		FileIndex: fileIndex,
		Samples:   samples,
		Total:     len(samples),
	}
}

// SplitTask draws cfg.Support + cfg.Query samples from the task without
// replacement and divides them. The random source is injected and advances
// across calls; reseeding it per call would replay identical "random"
// splits. Returns an error when the task is too small for the requested
// split.
func SplitTask(t model.FileTask, cfg Config, rng *rand.Rand) (Split, error) {
	if cfg.Support <= 0 || cfg.Query <= 0 {
		return Split{}, fmt.Errorf("fewshot: support %d and query %d must be positive", cfg.Support, cfg.Query)
	}
	need := cfg.Support + cfg.Query
	if len(t.Samples) < need {
		return Split{}, fmt.Errorf("fewshot: task %s has %d samples, split needs %d", t.TaskID, len(t.Samples), need)
	}

	perm := rng.Perm(len(t.Samples))
	picked := make([]model.Sample, need)
	for i := 0; i < need; i++ {
		picked[i] = t.Samples[perm[i]]
	}
	return Split{
		Support: picked[:cfg.Support],
		Query:   picked[cfg.Support:need],
	}, nil
}
