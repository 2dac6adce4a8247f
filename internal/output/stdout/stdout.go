package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimson-sun/stylet/internal/model"
	"github.com/crimson-sun/stylet/internal/output"
)

// Output writes JSON-encoded samples to stdout, one object per line.
type Output struct {
	enc  *json.Encoder
	mode output.Mode
}

// New creates a stdout Output with mode-aware field omission and optional
// pretty-printed JSON.
func New(mode output.Mode, pretty bool) *Output {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, mode: mode}
}

func (o *Output) Write(_ context.Context, sample model.Sample) error {
	formatted := output.Format(sample, o.mode)
	if err := o.enc.Encode(formatted); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
