package eval

import (
	"context"
	"sync"

	"github.com/crimson-sun/stylet/internal/model"
)

// Collector is an output.Output that keeps samples in memory for a
// post-run evaluation pass.
type Collector struct {
	mu      sync.Mutex
	Samples []model.Sample
}

// Write appends the sample.
func (c *Collector) Write(_ context.Context, sample model.Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Samples = append(c.Samples, sample)
	return nil
}

// Close is a no-op.
func (c *Collector) Close() error {
	return nil
}
