package audio

import "time"

// Clip is one dubbing slot on the media timeline. PCM is nil when the
// segment has no rendered audio.
type Clip struct {
	From time.Duration
	To   time.Duration
	PCM  []byte
}

func (c Clip) Target() time.Duration {
	return c.To - c.From
}

// SilenceStep records the silence computed ahead of one clip. Gap is the
// scheduling gap to the previous clip (the leading offset for the first);
// Compensation is the slot time the clip's audio does not fill. Inserted is
// their sum clamped at zero, rounded up to whole samples.
type SilenceStep struct {
	Index        int
	Gap          time.Duration
	Compensation time.Duration
	Inserted     time.Duration
	Bytes        int
}

type Timeline struct {
	PCM   []byte
	Steps []SilenceStep
}

func (t *Timeline) Duration() time.Duration {
	return Duration(t.PCM)
}

// SilenceDuration is the total silence actually written.
func (t *Timeline) SilenceDuration() time.Duration {
	n := 0
	for _, s := range t.Steps {
		n += s.Bytes
	}
	return DurationOfBytes(n)
}

// GapDuration sums the positive scheduling gaps; overlapping clips add
// nothing.
func (t *Timeline) GapDuration() time.Duration {
	var total time.Duration
	for _, s := range t.Steps {
		if s.Gap > 0 {
			total += s.Gap
		}
	}
	return total
}

// MergeTimeline concatenates clip audio into one buffer aligned to the media
// timeline:
//  1. a leading silence of clips[0].From when positive;
//  2. before every later clip, silence of gap + (target - audio), only when
//     that sum is positive;
//  3. the clip's own audio.
//
// A clip without audio contributes no bytes but its slot still counts as
// unfilled, so the clips after it stay on schedule.
func MergeTimeline(clips []Clip) *Timeline {
	tl := &Timeline{}
	if len(clips) == 0 {
		return tl
	}

	size := 0
	for _, c := range clips {
		size += len(c.PCM)
	}
	pcm := make([]byte, 0, size)

	for i, clip := range clips {
		step := SilenceStep{Index: i}
		if i == 0 {
			step.Gap = clip.From
		} else {
			step.Gap = clip.From - clips[i-1].To
			step.Compensation = clip.Target() - Duration(clip.PCM)
		}

		if total := step.Gap + step.Compensation; total > 0 {
			silence := Silence(total)
			step.Bytes = len(silence)
			step.Inserted = DurationOfBytes(step.Bytes)
			pcm = append(pcm, silence...)
		}
		tl.Steps = append(tl.Steps, step)

		pcm = append(pcm, aligned(clip.PCM)...)
	}

	tl.PCM = pcm
	return tl
}

// drops a dangling odd byte so following samples stay aligned
func aligned(pcm []byte) []byte {
	frame := BytesPerSample * Channels
	return pcm[:len(pcm)-len(pcm)%frame]
}
