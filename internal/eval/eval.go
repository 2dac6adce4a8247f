// Package eval scores built window samples with an exported detector model
// and reports validation ROC AUC, the metric the training experiments
// compare on.
package eval

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/crimson-sun/stylet/internal/model"
)

// Scorer produces one detection score per window. *Detector is the ONNX
// implementation; tests substitute their own.
type Scorer interface {
	Score(windows [][]float64) ([]float64, error)
}

// Config parameterizes an evaluation pass.
type Config struct {
	BinarizeAt float64 // targets ≥ this count as positive; default 0.5
	Neutral    float64 // AUC reported when only one class is present; default 0.5
	BatchSize  int     // windows per inference call; default 256
}

func (c Config) withDefaults() Config {
	if c.BinarizeAt == 0 {
		c.BinarizeAt = 0.5
	}
	if c.Neutral == 0 {
		c.Neutral = 0.5
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 256
	}
	return c
}

// Result summarizes one evaluation pass.
type Result struct {
	AUC        float64
	Positives  int
	Negatives  int
	Degenerate bool // single observed class; AUC is the neutral value
}

// Evaluate scores all samples in batches and computes ROC AUC against the
// binarized targets.
func Evaluate(scorer Scorer, samples []model.Sample, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if len(samples) == 0 {
		return Result{}, fmt.Errorf("eval: no samples")
	}

	scores := make([]float64, 0, len(samples))
	for lo := 0; lo < len(samples); lo += cfg.BatchSize {
		hi := min(lo+cfg.BatchSize, len(samples))
		windows := make([][]float64, 0, hi-lo)
		for _, s := range samples[lo:hi] {
			windows = append(windows, s.X)
		}
		batch, err := scorer.Score(windows)
		if err != nil {
			return Result{}, fmt.Errorf("eval: %w", err)
		}
		scores = append(scores, batch...)
	}

	classes := make([]bool, len(samples))
	res := Result{}
	for i, s := range samples {
		classes[i] = s.Y >= cfg.BinarizeAt
		if classes[i] {
			res.Positives++
		} else {
			res.Negatives++
		}
	}

	res.AUC, res.Degenerate = AUC(scores, classes, cfg.Neutral)
	return res, nil
}

// AUC computes the area under the ROC curve for the given scores and class
// labels. A single observed class makes the metric undefined; the neutral
// value is returned with degenerate=true instead of failing, matching how
// runs with an unlucky validation split are reported.
func AUC(scores []float64, classes []bool, neutral float64) (auc float64, degenerate bool) {
	var pos int
	for _, c := range classes {
		if c {
			pos++
		}
	}
	if pos == 0 || pos == len(classes) {
		return neutral, true
	}

	// stat.ROC wants scores ascending with classes alongside.
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })
	y := make([]float64, len(scores))
	cls := make([]bool, len(classes))
	for i, j := range idx {
		y[i] = scores[j]
		cls[i] = classes[j]
	}

	tpr, fpr, _ := stat.ROC(nil, y, cls, nil)
	return integrate.Trapezoidal(fpr, tpr), false
}
