// Package binfile reads raw capture files as written by the sensor rig: a
// flat sequence of little-endian float32 values forming a row-major (N, 5)
// matrix, laid out on disk as {dir}/T2D_{distance}/SavedData_{idx:03d}.bin.
package binfile

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/crimson-sun/stylet/internal/model"
	"github.com/crimson-sun/stylet/internal/source"
)

const (
	distPrefix = "T2D_"
	filePrefix = "SavedData_"
	fileSuffix = ".bin"
)

func init() {
	source.Register("binfile", func() source.Source {
		return &Source{}
	})
}

// Source implements source.Source for on-disk capture files.
type Source struct{}

// Scan walks cfg.Dir for T2D_* category directories and lists the capture
// files inside, filtered to cfg.Distances when set. Refs are returned in
// (distance, file index) order.
func (s *Source) Scan(_ context.Context, cfg source.Config) ([]source.Ref, error) {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("binfile: scan %s: %w", cfg.Dir, err)
	}

	want := map[string]bool{}
	for _, d := range cfg.Distances {
		want[d] = true
	}

	var refs []source.Ref
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), distPrefix) {
			continue
		}
		dist := strings.TrimPrefix(e.Name(), distPrefix)
		if len(want) > 0 && !want[dist] {
			continue
		}
		files, err := os.ReadDir(filepath.Join(cfg.Dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("binfile: scan %s: %w", e.Name(), err)
		}
		for _, f := range files {
			idx, ok := parseIndex(f.Name())
			if !ok {
				continue
			}
			refs = append(refs, source.Ref{
				Path:      filepath.Join(cfg.Dir, e.Name(), f.Name()),
				Distance:  dist,
				FileIndex: idx,
			})
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Distance != refs[j].Distance {
			return refs[i].Distance < refs[j].Distance
		}
		return refs[i].FileIndex < refs[j].FileIndex
	})
	return refs, nil
}

// Load reads one capture file and transposes it into channels.
func (s *Source) Load(_ context.Context, ref source.Ref) (*model.Recording, error) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("binfile: read %s: %w", ref.Path, err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("binfile: %s: size %d is not a whole number of float32s", ref.Path, len(data))
	}
	count := len(data) / 4
	if count%model.NumChannels != 0 {
		return nil, fmt.Errorf("binfile: %s: %d values do not fill rows of %d channels", ref.Path, count, model.NumChannels)
	}
	n := count / model.NumChannels

	rec := &model.Recording{
		Distance:  ref.Distance,
		FileIndex: ref.FileIndex,
		Path:      ref.Path,
	}
	for c := range rec.Channels {
		rec.Channels[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		row := i * model.NumChannels * 4
		for c := 0; c < model.NumChannels; c++ {
			bits := binary.LittleEndian.Uint32(data[row+c*4:])
			rec.Channels[c][i] = float64(math.Float32frombits(bits))
		}
	}
	return rec, nil
}

// parseIndex extracts the numeric file index from SavedData_{idx:03d}.bin
// names. Returns false for anything else in the directory.
func parseIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return 0, false
	}
	num := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
