package output

import (
	"context"

	"github.com/crimson-sun/stylet/internal/model"
)

// Output defines the interface for dataset sample destinations.
type Output interface {
	Write(ctx context.Context, sample model.Sample) error
	Close() error
}
