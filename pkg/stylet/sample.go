package stylet

import "github.com/crimson-sun/stylet/internal/model"

// Sample is one supervised training example: a fixed-length window of the
// baseline-subtracted force trace and the target value at its reference
// index.
type Sample struct {
	Distance  string    // needle distance category, "" for in-memory builds
	FileIndex int       // capture index within the category
	RefIndex  int       // recording index the target was read at
	Window    []float64 // length = the variant's seq_len
	Target    float64   // in [0, 1]
}

func fromModel(in []model.Sample) []Sample {
	out := make([]Sample, len(in))
	for i, s := range in {
		out[i] = Sample{
			Distance:  s.Distance,
			FileIndex: s.FileIndex,
			RefIndex:  s.RefIndex,
			Window:    s.X,
			Target:    s.Y,
		}
	}
	return out
}
