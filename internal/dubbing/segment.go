package dubbing

import (
	"time"

	"github.com/mgpai22/subdub/internal/subtitle"
	"github.com/mgpai22/subdub/internal/synth"
)

const DefaultVoice = "en-US-AvaMultilingualNeural"

type Params struct {
	Voice string  `json:"voice"`
	Rate  float64 `json:"rate"`
}

func DefaultParams() Params {
	return Params{Voice: DefaultVoice}
}

// Segment is one unit of synthesized speech. SubIndexes traces it back to
// the subtitle cues it came from; a singleton until merged.
type Segment struct {
	From       int64  `json:"from"`
	To         int64  `json:"to"`
	Text       string `json:"text"`
	SubIndexes []int  `json:"subIndexes"`
	Params     Params `json:"params"`
}

// Target is the slot the audio should fill.
func (s Segment) Target() time.Duration {
	return time.Duration(s.To-s.From) * time.Millisecond
}

func (s Segment) Merged() bool {
	return len(s.SubIndexes) > 1
}

func (s Segment) clone() Segment {
	c := s
	c.SubIndexes = append([]int(nil), s.SubIndexes...)
	return c
}

// Track is the ordered dubbing segment list. Mutations return a new Track.
type Track []Segment

func (t Track) Clone() Track {
	if t == nil {
		return nil
	}
	out := make(Track, len(t))
	for i, seg := range t {
		out[i] = seg.clone()
	}
	return out
}

func (t Track) valid(i int) bool {
	return i >= 0 && i < len(t)
}

// ResetFromSubtitle derives one segment per cue of the destination track,
// spoken by voice (DefaultVoice when empty) at rate 0.
func ResetFromSubtitle(dst subtitle.Track, voice string) Track {
	params := DefaultParams()
	if voice != "" {
		params.Voice = voice
	}
	out := make(Track, len(dst.Cues))
	for i, cue := range dst.Cues {
		out[i] = Segment{
			From:       cue.From,
			To:         cue.To,
			Text:       cue.Text,
			SubIndexes: []int{i},
			Params:     params,
		}
	}
	return out
}

func (t Track) CanMergeDown(i int) bool {
	return t.valid(i) && i+1 < len(t)
}

// MergeDown folds segment i+1 into i: the slot extends to the next segment's
// end, texts join with a space and SubIndexes concatenate.
func (t Track) MergeDown(i int) (Track, bool) {
	if !t.CanMergeDown(i) {
		return t, false
	}
	this, next := t[i], t[i+1]

	merged := this.clone()
	merged.To = next.To
	merged.Text = this.Text + " " + next.Text
	merged.SubIndexes = append(merged.SubIndexes, next.SubIndexes...)

	out := make(Track, 0, len(t)-1)
	out = append(out, t[:i].Clone()...)
	out = append(out, merged)
	out = append(out, t[i+2:].Clone()...)
	return out, true
}

func (t Track) CanUnmerge(i int) bool {
	return t.valid(i) && t[i].Merged()
}

// UnmergeAll replaces a merged segment with one segment per SubIndex, each
// rebuilt from its cue in dst. The voice is kept; rate resets to 0. A
// SubIndex missing from dst makes the call a no-op.
func (t Track) UnmergeAll(i int, dst subtitle.Track) (Track, bool) {
	if !t.CanUnmerge(i) {
		return t, false
	}
	merged := t[i]
	for _, k := range merged.SubIndexes {
		if k < 0 || k >= len(dst.Cues) {
			return t, false
		}
	}

	parts := make(Track, 0, len(merged.SubIndexes))
	for _, k := range merged.SubIndexes {
		cue := dst.Cues[k]
		parts = append(parts, Segment{
			From:       cue.From,
			To:         cue.To,
			Text:       cue.Text,
			SubIndexes: []int{k},
			Params:     Params{Voice: merged.Params.Voice},
		})
	}

	out := make(Track, 0, len(t)-1+len(parts))
	out = append(out, t[:i].Clone()...)
	out = append(out, parts...)
	out = append(out, t[i+1:].Clone()...)
	return out, true
}

// InsertBreak puts a 100ms pause marker into the text at cursor, counted in
// runes and clamped to the text. Timing is unchanged.
func (t Track) InsertBreak(i, cursor int) (Track, bool) {
	if !t.valid(i) {
		return t, false
	}
	runes := []rune(t[i].Text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	out := t.Clone()
	out[i].Text = string(runes[:cursor]) + synth.BreakTag + string(runes[cursor:])
	return out, true
}

func (t Track) SetText(i int, text string) (Track, bool) {
	if !t.valid(i) {
		return t, false
	}
	out := t.Clone()
	out[i].Text = text
	return out, true
}

func (t Track) SetRate(i int, rate float64) (Track, bool) {
	if !t.valid(i) {
		return t, false
	}
	out := t.Clone()
	out[i].Params.Rate = rate
	return out, true
}

func (t Track) SetVoice(i int, voice string) (Track, bool) {
	if !t.valid(i) || voice == "" {
		return t, false
	}
	out := t.Clone()
	out[i].Params.Voice = voice
	return out, true
}

// SSML for the segment as it would be sent to the synthesizer.
func (s Segment) SSML() string {
	return synth.BuildSSML(s.Text, s.Params.Voice, s.Params.Rate)
}
