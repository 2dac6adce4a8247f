package correct

import (
	"testing"

	"github.com/crimson-sun/stylet/internal/model"
)

func testRecording(distance string, n int) *model.Recording {
	rec := &model.Recording{Distance: distance}
	for c := range rec.Channels {
		rec.Channels[c] = make([]float64, n)
		for i := range rec.Channels[c] {
			rec.Channels[c][i] = float64(i)
		}
	}
	return rec
}

func TestApplyOffsetAndCut(t *testing.T) {
	rec := testRecording("0800", 100)
	cfg := Config{Distance: "0800", Offset: -2.5, CutStart: 10, CutEnd: 20}

	if err := Apply(rec, cfg); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if got := rec.Len(); got != 90 {
		t.Fatalf("length after cut = %d, want 90", got)
	}
	// Offset applies to the force channel only.
	if rec.Force()[0] != -2.5 {
		t.Fatalf("force[0] = %v, want -2.5", rec.Force()[0])
	}
	if rec.Marker()[0] != 0 {
		t.Fatalf("marker[0] = %v, want untouched 0", rec.Marker()[0])
	}
	// Sample 10 onward is the old sample 20 onward.
	if rec.Force()[10] != 20-2.5 {
		t.Fatalf("force[10] = %v, want 17.5", rec.Force()[10])
	}
	for c := range rec.Channels {
		if len(rec.Channels[c]) != 90 {
			t.Fatalf("channel %d length = %d, want 90", c, len(rec.Channels[c]))
		}
	}
}

func TestApplySkipsOtherDistances(t *testing.T) {
	rec := testRecording("1000", 100)
	cfg := Config{Distance: "0800", Offset: -2.5, CutStart: 10, CutEnd: 20}

	if err := Apply(rec, cfg); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if rec.Len() != 100 || rec.Force()[0] != 0 {
		t.Fatal("recording from another distance was modified")
	}
}

func TestApplyDisabled(t *testing.T) {
	rec := testRecording("0800", 100)
	if err := Apply(rec, Config{}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if rec.Len() != 100 || rec.Force()[0] != 0 {
		t.Fatal("disabled correction modified the recording")
	}
}

func TestApplyRejectsBadInterval(t *testing.T) {
	cases := []Config{
		{Distance: "0800", CutStart: -1, CutEnd: 10},
		{Distance: "0800", CutStart: 10, CutEnd: 101},
		{Distance: "0800", CutStart: 20, CutEnd: 10},
	}
	for i, cfg := range cases {
		rec := testRecording("0800", 100)
		if err := Apply(rec, cfg); err == nil {
			t.Errorf("case %d: expected interval error", i)
		}
	}
}

func TestApplyEmptyCutIsOffsetOnly(t *testing.T) {
	rec := testRecording("0800", 100)
	cfg := Config{Distance: "0800", Offset: 1.0, CutStart: 50, CutEnd: 50}
	if err := Apply(rec, cfg); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if rec.Len() != 100 {
		t.Fatalf("length = %d, want 100", rec.Len())
	}
	if rec.Force()[0] != 1.0 {
		t.Fatalf("force[0] = %v, want 1.0", rec.Force()[0])
	}
}
