// Package stylet builds supervised window datasets from needle-force
// recordings: it places a smoothed target signal around the puncture event
// (the second marker detection) and slices the baseline-subtracted force
// trace into fixed-length windows, each paired with one target value.
//
// Quick start:
//
//	s, err := stylet.New(stylet.WithPreset("lstm-reg"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	samples, err := s.BuildFile("data/T2D_0800/SavedData_003.bin")
//	if err != nil {
//	    log.Fatal(err) // e.g. stylet.ErrInsufficientEvents
//	}
//	fmt.Println(len(samples), samples[0].Target)
//
// A Stylet is cheap to create but not safe for concurrent use: it carries
// the run's random source for the label floor noise. Create one per
// goroutine, or one per run for reproducible output.
package stylet
