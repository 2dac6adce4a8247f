package eval

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// Detector wraps an exported puncture-detector ONNX model. The trainer
// exports models as [batch, seq_len, 1] float32 in → [batch, 1] score out,
// regardless of which architecture produced them.
type Detector struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	seqLen     int64
}

// NewDetector loads the ONNX model at modelPath and validates its tensor
// shapes. The ONNX Runtime shared library is expected alongside the model.
func NewDetector(modelPath string) (*Detector, error) {
	libPath := filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 input tensor, got %d", len(inputs))
	}
	if len(outputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 output tensor, got %d", len(outputs))
	}
	dims := inputs[0].Dimensions
	if len(dims) != 3 || dims[2] != 1 {
		return nil, fmt.Errorf("onnx: expected [batch, seq, 1] input tensor, got %v", dims)
	}
	seqLen := dims[1]

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &Detector{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		seqLen:     seqLen,
	}, nil
}

// Score runs the detector over a batch of windows and returns one score per
// window. Every window must have the model's sequence length.
func (d *Detector) Score(windows [][]float64) ([]float64, error) {
	if len(windows) == 0 {
		return nil, nil
	}
	batch := int64(len(windows))

	flat := make([]float32, batch*d.seqLen)
	for i, w := range windows {
		if int64(len(w)) != d.seqLen {
			return nil, fmt.Errorf("onnx: window %d has length %d, model expects %d", i, len(w), d.seqLen)
		}
		off := int64(i) * d.seqLen
		for j, v := range w {
			flat[off+int64(j)] = float32(v)
		}
	}

	tIn, err := ort.NewTensor(ort.NewShape(batch, d.seqLen, 1), flat)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(batch, 1))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := d.session.Run([]ort.Value{tIn}, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	out := tOut.GetData()
	scores := make([]float64, len(windows))
	for i := range scores {
		scores[i] = float64(out[i])
	}
	return scores, nil
}

// Close releases the ONNX session resources.
func (d *Detector) Close() error {
	return d.session.Destroy()
}
