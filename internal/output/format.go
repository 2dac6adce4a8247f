package output

import "github.com/crimson-sun/stylet/internal/model"

// Mode controls how much of a sample a writer emits.
type Mode int

const (
	// Full keeps the input window alongside the target.
	Full Mode = iota
	// Compact strips the window, leaving provenance and target only.
	// Useful when inspecting label quality without the bulk.
	Compact
)

// ParseMode converts a string ("full", "compact") to a Mode.
// Unknown strings default to Full.
func ParseMode(s string) Mode {
	if s == "compact" {
		return Compact
	}
	return Full
}

// Format returns a copy of the sample with fields stripped according to
// mode. At Compact the window is dropped (omitted from JSON via omitempty).
func Format(s model.Sample, mode Mode) model.Sample {
	if mode == Compact {
		s.X = nil
	}
	return s
}
