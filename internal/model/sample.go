package model

// Sample is one supervised training example: a fixed-length input window
// cut from the baseline-subtracted force signal, paired with the smoothed
// target value at the window's reference index.
type Sample struct {
	Distance  string    `json:"distance"`
	FileIndex int       `json:"file_idx"`
	RefIndex  int       `json:"ref_idx"` // index into the recording the target was read at
	X         []float64 `json:"x,omitempty"`
	Y         float64   `json:"y"` // in [0, 1]
}

// FileTask groups the samples of one physical recording. In few-shot mode
// the task, not the sample, is the unit of adaptation: a support subset
// tunes the model, a disjoint query subset measures it.
type FileTask struct {
	TaskID    string   `json:"task_id"`
	Distance  string   `json:"needle_dist"`
	FileIndex int      `json:"file_idx"`
	Samples   []Sample `json:"-"`
	Total     int      `json:"total_sequences"`
}
