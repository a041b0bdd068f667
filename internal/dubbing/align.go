package dubbing

import (
	"fmt"
	"time"
)

const (
	// AlignmentTolerance is how far audio may drift from its slot and still
	// count as well aligned.
	AlignmentTolerance = 100 * time.Millisecond

	// MaxAutoRate bounds the rate hints that may be applied automatically.
	MaxAutoRate = 0.2
)

type Alignment struct {
	Index          int
	Target         time.Duration
	Audio          time.Duration
	Rendered       bool
	Good           bool
	RateHint       float64
	CanAutoCorrect bool
	Warning        string
}

// Delta is positive when the audio overruns its slot.
func (a Alignment) Delta() time.Duration {
	return a.Audio - a.Target
}

// RateHint is the speed-up that would make audio fit target.
func RateHint(target, audioLen time.Duration) float64 {
	if target <= 0 {
		return 0
	}
	return float64(audioLen)/float64(target) - 1
}

// Align compares a segment with its render. ok reports whether render is
// present; without one only Target is filled.
func Align(seg Segment, render Render, ok bool) Alignment {
	a := Alignment{Target: seg.Target(), Rendered: ok}
	if !ok {
		return a
	}
	a.Audio = render.Duration

	delta := a.Delta()
	if delta < 0 {
		delta = -delta
	}
	a.Good = delta <= AlignmentTolerance
	if a.Good {
		return a
	}

	a.RateHint = RateHint(a.Target, a.Audio)
	a.CanAutoCorrect = a.RateHint > 0 && a.RateHint < MaxAutoRate
	if !a.CanAutoCorrect {
		a.Warning = alignmentWarning(a)
	}
	return a
}

func alignmentWarning(a Alignment) string {
	if a.Delta() > 0 {
		return fmt.Sprintf("audio overruns slot by %s; shorten the text or merge with the next segment", a.Delta())
	}
	return fmt.Sprintf("audio is %s shorter than its slot", -a.Delta())
}

// Report aligns every segment of track against the engine's renders.
func (e *Engine) Report(track Track) []Alignment {
	out := make([]Alignment, len(track))
	for i, seg := range track {
		render, ok := e.renders.Lookup(seg)
		out[i] = Align(seg, render, ok)
		out[i].Index = i
	}
	return out
}
