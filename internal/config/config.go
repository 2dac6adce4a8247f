package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all stylet configuration.
type Config struct {
	Source      SourceConfig
	Output      OutputConfig
	Eval        EvalConfig
	Variant     Variant
	LogLevel    string
	MetricsAddr string // empty disables the metrics server
}

// SourceConfig holds recording-source settings.
type SourceConfig struct {
	Provider  string
	Dir       string
	Distances []string
	Extra     map[string]string
}

// OutputConfig holds dataset destination settings.
type OutputConfig struct {
	Format     string // "stdout", "file", "sqlite"
	Path       string // NDJSON path for "file"
	SQLitePath string
	Mode       string // "full" or "compact"
	Pretty     bool
}

// EvalConfig holds optional detector-evaluation settings.
type EvalConfig struct {
	ModelPath  string // empty skips evaluation
	BinarizeAt float64
	Neutral    float64
}

// Load reads configuration from environment variables with sensible
// defaults, resolving the build variant from its preset name plus an
// optional YAML override file.
func Load() (Config, error) {
	variant, err := LoadVariant(
		getenv("STYLET_VARIANT", "lstm-reg"),
		os.Getenv("STYLET_VARIANT_FILE"),
	)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Source: SourceConfig{
			Provider:  getenv("STYLET_SOURCE", "binfile"),
			Dir:       getenv("STYLET_DATA_DIR", "data"),
			Distances: splitList(os.Getenv("STYLET_DISTANCES")),
			Extra:     loadSourceExtra(),
		},
		Output: OutputConfig{
			Format:     getenv("STYLET_OUTPUT", "file"),
			Path:       getenv("STYLET_OUTPUT_PATH", "dataset.ndjson"),
			SQLitePath: getenv("STYLET_SQLITE_PATH", "dataset.db"),
			Mode:       getenv("STYLET_OUTPUT_MODE", "full"),
			Pretty:     getenvBool("STYLET_OUTPUT_PRETTY", false),
		},
		Eval: EvalConfig{
			ModelPath:  os.Getenv("STYLET_EVAL_MODEL"),
			BinarizeAt: getenvFloat("STYLET_EVAL_BINARIZE_AT", 0.5),
			Neutral:    getenvFloat("STYLET_EVAL_NEUTRAL", 0.5),
		},
		Variant:     variant,
		LogLevel:    getenv("STYLET_LOG_LEVEL", "info"),
		MetricsAddr: os.Getenv("STYLET_METRICS_ADDR"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadSourceExtra reads provider-specific env vars into an Extra map.
func loadSourceExtra() map[string]string {
	vars := []struct {
		envVar   string
		extraKey string
	}{
		{"STYLET_SYNTHETIC_FILES", "files"},
	}

	var m map[string]string
	for _, v := range vars {
		if val := os.Getenv(v.envVar); val != "" {
			if m == nil {
				m = make(map[string]string)
			}
			m[v.extraKey] = val
		}
	}
	return m
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// unknownPresetError keeps the valid names in the message; typos in
// STYLET_VARIANT are a common way to run the wrong experiment.
func unknownPresetError(name string) error {
	return fmt.Errorf("unknown variant preset %q (have: %s)", name, strings.Join(PresetNames(), ", "))
}
