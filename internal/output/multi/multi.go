package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/stylet/internal/model"
	"github.com/crimson-sun/stylet/internal/output"
)

// Multi fans out samples to multiple output.Output implementations, e.g.
// an NDJSON file for inspection plus the SQLite store the trainer reads.
// If one output fails, the remaining outputs still receive the sample.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi that fans out to the given outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers the sample to every wrapped output. Errors are collected
// but do not prevent delivery to subsequent outputs.
func (m *Multi) Write(ctx context.Context, sample model.Sample) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, sample); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on every wrapped output, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
