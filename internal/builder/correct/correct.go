// Package correct applies the per-category anomaly correction some capture
// sessions need: a constant offset on the force channel plus excision of a
// corrupted interval. It is the only stage that mutates a recording in
// place, and it runs before baseline subtraction and labeling so marker
// indices stay consistent with the corrected series.
package correct

import (
	"fmt"

	"github.com/crimson-sun/stylet/internal/model"
)

// Config names the correction. Distance selects which needle-distance
// category it applies to; recordings from other categories pass through
// untouched. An empty Distance disables the stage entirely.
type Config struct {
	Distance string  `yaml:"distance"`
	Offset   float64 `yaml:"offset"`    // added to every force sample
	CutStart int     `yaml:"cut_start"` // excised interval [CutStart, CutEnd)
	CutEnd   int     `yaml:"cut_end"`
}

// Apply mutates rec per cfg. Preconditions: the cut interval must lie
// within the recording and start before it ends. Postconditions: all
// channels share the new, shorter length; marker values are untouched
// outside the cut.
func Apply(rec *model.Recording, cfg Config) error {
	if cfg.Distance == "" || rec.Distance != cfg.Distance {
		return nil
	}
	n := rec.Len()
	if cfg.CutStart < 0 || cfg.CutEnd > n || cfg.CutStart > cfg.CutEnd {
		return fmt.Errorf("correct: cut [%d, %d) outside recording of length %d", cfg.CutStart, cfg.CutEnd, n)
	}

	force := rec.Channels[model.ChannelForce]
	for i := range force {
		force[i] += cfg.Offset
	}

	if cfg.CutStart == cfg.CutEnd {
		return nil
	}
	for c := range rec.Channels {
		ch := rec.Channels[c]
		rec.Channels[c] = append(ch[:cfg.CutStart], ch[cfg.CutEnd:]...)
	}
	return nil
}
