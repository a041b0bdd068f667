package dubbing

import (
	"time"

	"github.com/mgpai22/subdub/internal/audio"
)

// TotalAudioDuration sums the durations of every segment's matching render.
func TotalAudioDuration(track Track, renders *Renders) time.Duration {
	var total time.Duration
	for _, seg := range track {
		if r, ok := renders.Lookup(seg); ok {
			total += r.Duration
		}
	}
	return total
}

// TotalBreakDuration is the leading offset of the first segment plus every
// positive gap between consecutive segments. Overlaps count as zero.
func TotalBreakDuration(track Track) time.Duration {
	if len(track) == 0 {
		return 0
	}
	total := track[0].From
	for i := 1; i < len(track); i++ {
		if gap := track[i].From - track[i-1].To; gap > 0 {
			total += gap
		}
	}
	return time.Duration(total) * time.Millisecond
}

func Clips(track Track, renders *Renders) []audio.Clip {
	clips := make([]audio.Clip, len(track))
	for i, seg := range track {
		clips[i] = audio.Clip{
			From: time.Duration(seg.From) * time.Millisecond,
			To:   time.Duration(seg.To) * time.Millisecond,
		}
		if r, ok := renders.Lookup(seg); ok {
			clips[i].PCM = r.Audio
		}
	}
	return clips
}

type Stats struct {
	Segments      int
	Merged        int
	Rendered      int
	AudioDuration time.Duration
	BreakDuration time.Duration
	Good          int
	Correctable   int
	Warnings      int
}

func (e *Engine) Stats(track Track) Stats {
	s := Stats{
		Segments:      len(track),
		AudioDuration: TotalAudioDuration(track, e.renders),
		BreakDuration: TotalBreakDuration(track),
	}
	for _, seg := range track {
		if seg.Merged() {
			s.Merged++
		}
	}
	for _, a := range e.Report(track) {
		if !a.Rendered {
			continue
		}
		s.Rendered++
		switch {
		case a.Good:
			s.Good++
		case a.CanAutoCorrect:
			s.Correctable++
		default:
			s.Warnings++
		}
	}
	return s
}
