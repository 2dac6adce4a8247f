package source

import (
	"context"

	"github.com/crimson-sun/stylet/internal/model"
)

// Source defines the interface all recording sources must implement.
type Source interface {
	// Scan discovers the recordings available under the given config,
	// without reading their payloads.
	Scan(ctx context.Context, cfg Config) ([]Ref, error)

	// Load reads one discovered recording into memory.
	Load(ctx context.Context, ref Ref) (*model.Recording, error)
}

// Config holds provider-specific source settings.
type Config struct {
	Provider  string
	Dir       string
	Distances []string // needle distance categories to include; nil means all
	Extra     map[string]string
}

// Ref identifies one recording within a source.
type Ref struct {
	Path      string
	Distance  string
	FileIndex int
}
