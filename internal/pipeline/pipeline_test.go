package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/crimson-sun/stylet/internal/builder"
	"github.com/crimson-sun/stylet/internal/builder/correct"
	"github.com/crimson-sun/stylet/internal/builder/label"
	"github.com/crimson-sun/stylet/internal/builder/window"
	"github.com/crimson-sun/stylet/internal/model"
	"github.com/crimson-sun/stylet/internal/source"
)

// fakeSource serves pre-built recordings from memory.
type fakeSource struct {
	recs    []*model.Recording
	scanErr error
	loadErr map[string]error
}

func (f *fakeSource) Scan(_ context.Context, _ source.Config) ([]source.Ref, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	refs := make([]source.Ref, len(f.recs))
	for i, rec := range f.recs {
		refs[i] = source.Ref{Path: rec.Path, Distance: rec.Distance, FileIndex: rec.FileIndex}
	}
	return refs, nil
}

func (f *fakeSource) Load(_ context.Context, ref source.Ref) (*model.Recording, error) {
	if err := f.loadErr[ref.Path]; err != nil {
		return nil, err
	}
	for _, rec := range f.recs {
		if rec.Path == ref.Path {
			return rec, nil
		}
	}
	return nil, errors.New("not found")
}

// countingOutput records every written sample.
type countingOutput struct {
	mu       sync.Mutex
	samples  []model.Sample
	writeErr error
	closed   bool
}

func (o *countingOutput) Write(_ context.Context, s model.Sample) error {
	if o.writeErr != nil {
		return o.writeErr
	}
	o.mu.Lock()
	o.samples = append(o.samples, s)
	o.mu.Unlock()
	return nil
}

func (o *countingOutput) Close() error {
	o.closed = true
	return nil
}

// goodRecording has two marker events and enough samples to window.
func goodRecording(distance string, idx int) *model.Recording {
	rec := &model.Recording{
		Distance:  distance,
		FileIndex: idx,
		Path:      fmt.Sprintf("T2D_%s/SavedData_%03d.bin", distance, idx),
	}
	const n = 1000
	for c := range rec.Channels {
		rec.Channels[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		rec.Channels[model.ChannelForce][i] = 0.5 + 0.001*float64(i)
	}
	rec.Channels[model.ChannelMarker][200] = 1
	rec.Channels[model.ChannelMarker][500] = 1
	return rec
}

// singleMarkerRecording never reaches puncture.
func singleMarkerRecording() *model.Recording {
	rec := goodRecording("0600", 9)
	rec.Path = "T2D_0600/SavedData_009.bin"
	rec.Channels[model.ChannelMarker][500] = 0
	return rec
}

func testBuilder(t *testing.T) *builder.Builder {
	t.Helper()
	lb, err := label.New(label.Config{
		Bands:  label.Uniform(20),
		Kernel: label.Symmetric(51, 10),
	}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("label.New error: %v", err)
	}
	return builder.New(lb, window.Config{SeqLen: 50, Stride: 1}, correct.Config{})
}

func TestRunPoolsAllFiles(t *testing.T) {
	src := &fakeSource{recs: []*model.Recording{
		goodRecording("0600", 0),
		goodRecording("0800", 1),
	}}
	out := &countingOutput{}
	p := New(src, testBuilder(t), out)

	summary, err := p.Run(context.Background(), source.Config{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.FilesScanned != 2 || summary.FilesUsed != 2 {
		t.Fatalf("summary = %+v, want 2 scanned, 2 used", summary)
	}
	// Every usable j in [50, 950] yields a window per file.
	if summary.Samples != 2*901 {
		t.Fatalf("samples = %d, want %d", summary.Samples, 2*901)
	}
	if len(out.samples) != summary.Samples {
		t.Fatalf("output got %d samples, summary says %d", len(out.samples), summary.Samples)
	}
	// Provenance survives pooling.
	if out.samples[0].Distance != "0600" || out.samples[901].Distance != "0800" {
		t.Fatal("pooled samples lost file provenance")
	}
}

func TestRunSkipsBadFiles(t *testing.T) {
	src := &fakeSource{
		recs: []*model.Recording{
			goodRecording("0600", 0),
			singleMarkerRecording(),
		},
		loadErr: map[string]error{},
	}
	short := goodRecording("1000", 3)
	short.Path = "T2D_1000/SavedData_003.bin"
	src.recs = append(src.recs, short)
	src.loadErr[short.Path] = errors.New("read failed")

	out := &countingOutput{}
	p := New(src, testBuilder(t), out)

	summary, err := p.Run(context.Background(), source.Config{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.FilesUsed != 1 {
		t.Fatalf("used = %d, want 1", summary.FilesUsed)
	}
	if summary.Skipped[SkipInsufficientEvents] != 1 {
		t.Fatalf("skipped = %v, want one %s", summary.Skipped, SkipInsufficientEvents)
	}
	if summary.Skipped[SkipUnreadable] != 1 {
		t.Fatalf("skipped = %v, want one %s", summary.Skipped, SkipUnreadable)
	}
}

func TestRunNoUsableFiles(t *testing.T) {
	src := &fakeSource{recs: []*model.Recording{singleMarkerRecording()}}
	p := New(src, testBuilder(t), &countingOutput{})

	_, err := p.Run(context.Background(), source.Config{})
	if !errors.Is(err, ErrNoUsableFiles) {
		t.Fatalf("error = %v, want ErrNoUsableFiles", err)
	}
}

func TestRunEmptyScan(t *testing.T) {
	src := &fakeSource{}
	p := New(src, testBuilder(t), &countingOutput{})

	summary, err := p.Run(context.Background(), source.Config{})
	if !errors.Is(err, ErrNoUsableFiles) {
		t.Fatalf("error = %v, want ErrNoUsableFiles", err)
	}
	if summary.FilesScanned != 0 {
		t.Fatalf("scanned = %d, want 0", summary.FilesScanned)
	}
}

func TestRunScanFailure(t *testing.T) {
	src := &fakeSource{scanErr: errors.New("no such directory")}
	p := New(src, testBuilder(t), &countingOutput{})

	if _, err := p.Run(context.Background(), source.Config{}); err == nil {
		t.Fatal("expected scan error")
	}
}

func TestRunWriteErrorAborts(t *testing.T) {
	src := &fakeSource{recs: []*model.Recording{goodRecording("0600", 0)}}
	out := &countingOutput{writeErr: errors.New("disk full")}
	p := New(src, testBuilder(t), out)

	if _, err := p.Run(context.Background(), source.Config{}); err == nil {
		t.Fatal("expected write error to abort the run")
	}
}

func TestRunContextCancel(t *testing.T) {
	src := &fakeSource{recs: []*model.Recording{goodRecording("0600", 0)}}
	p := New(src, testBuilder(t), &countingOutput{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx, source.Config{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestRunTasksGroupsByFile(t *testing.T) {
	src := &fakeSource{recs: []*model.Recording{
		goodRecording("0600", 0),
		goodRecording("0800", 1),
	}}
	p := New(src, testBuilder(t), &countingOutput{})

	tasks, summary, err := p.RunTasks(context.Background(), source.Config{})
	if err != nil {
		t.Fatalf("RunTasks error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Distance != "0600" || tasks[1].Distance != "0800" {
		t.Fatalf("task distances = %q, %q", tasks[0].Distance, tasks[1].Distance)
	}
	for _, task := range tasks {
		if task.Total != 901 || len(task.Samples) != 901 {
			t.Fatalf("task %s has %d samples (total %d), want 901", task.TaskID, len(task.Samples), task.Total)
		}
	}
	if summary.Samples != 2*901 {
		t.Fatalf("samples = %d, want %d", summary.Samples, 2*901)
	}
}

func TestCloseClosesOutput(t *testing.T) {
	out := &countingOutput{}
	p := New(&fakeSource{}, testBuilder(t), out)
	if err := p.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !out.closed {
		t.Fatal("output not closed")
	}
}
