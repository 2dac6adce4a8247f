package model

import "errors"

// Channel layout of a raw recording. The capture rig writes five channels
// per sample; only the force signal and the event marker are consumed here.
const (
	ChannelForce  = 0
	ChannelMarker = 4
	NumChannels   = 5
)

// ErrInsufficientEvents indicates a recording whose marker channel holds
// fewer than two rising detections. The first detection is needle contact
// and is never trusted on its own, so such a file carries no usable
// puncture time and must be skipped.
var ErrInsufficientEvents = errors.New("insufficient marker events")

// Recording is one raw sensor capture: NumChannels float channels of equal
// length, plus where it came from.
type Recording struct {
	Distance  string // needle distance category, e.g. "0800"
	FileIndex int    // index within the distance category
	Path      string // source path, for logs and provenance

	Channels [NumChannels][]float64
}

// Len returns the number of samples per channel.
func (r *Recording) Len() int {
	return len(r.Channels[ChannelForce])
}

// Force returns the primary force/position channel.
func (r *Recording) Force() []float64 {
	return r.Channels[ChannelForce]
}

// Marker returns the binary event marker channel.
func (r *Recording) Marker() []float64 {
	return r.Channels[ChannelMarker]
}

// MarkerIndices returns the indices at which the marker channel is set,
// in ascending order.
func (r *Recording) MarkerIndices() []int {
	var idx []int
	for i, v := range r.Marker() {
		if v == 1 {
			idx = append(idx, i)
		}
	}
	return idx
}

// PunctureIndex returns the authoritative puncture time: the second marker
// detection in ascending order. The first is discarded as contact noise and
// any beyond the second are ignored. Returns ErrInsufficientEvents when
// fewer than two detections exist.
func (r *Recording) PunctureIndex() (int, error) {
	idx := r.MarkerIndices()
	if len(idx) < 2 {
		return 0, ErrInsufficientEvents
	}
	return idx[1], nil
}
