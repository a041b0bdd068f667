package dubbing

import (
	"time"

	"github.com/mgpai22/subdub/internal/audio"
)

// Render is synthesized audio plus the segment fields it was made from.
type Render struct {
	From     int64
	Text     string
	Voice    string
	Rate     float64
	Audio    []byte
	Duration time.Duration
}

// Matches is true only when from, text, voice and rate are all unchanged.
func (r Render) Matches(seg Segment) bool {
	return r.From == seg.From &&
		r.Text == seg.Text &&
		r.Voice == seg.Params.Voice &&
		r.Rate == seg.Params.Rate
}

func newRender(seg Segment, pcm []byte) Render {
	return Render{
		From:     seg.From,
		Text:     seg.Text,
		Voice:    seg.Params.Voice,
		Rate:     seg.Params.Rate,
		Audio:    pcm,
		Duration: audio.Duration(pcm),
	}
}

// renderKey identifies a segment's slot: its start plus the first cue it
// came from. Merging keeps both, so a merged segment replaces the render of
// its head segment.
type renderKey struct {
	from int64
	cue  int
}

func keyOf(seg Segment) renderKey {
	k := renderKey{from: seg.From, cue: -1}
	if len(seg.SubIndexes) > 0 {
		k.cue = seg.SubIndexes[0]
	}
	return k
}

// Renders memoizes synthesis per segment slot. A lookup that finds a render
// made from different from/text/voice/rate discards it and reports a miss.
// Renders is owned by one editor session and is not safe for concurrent use.
type Renders struct {
	bySlot map[renderKey]Render
}

func NewRenders() *Renders {
	return &Renders{bySlot: make(map[renderKey]Render)}
}

func (r *Renders) Lookup(seg Segment) (Render, bool) {
	key := keyOf(seg)
	render, ok := r.bySlot[key]
	if !ok {
		return Render{}, false
	}
	if !render.Matches(seg) {
		delete(r.bySlot, key)
		return Render{}, false
	}
	return render, true
}

func (r *Renders) Store(seg Segment, pcm []byte) Render {
	render := newRender(seg, pcm)
	r.bySlot[keyOf(seg)] = render
	return render
}

// Prune drops every render no segment of track still matches.
func (r *Renders) Prune(track Track) int {
	live := make(map[renderKey]bool, len(track))
	for _, seg := range track {
		key := keyOf(seg)
		if render, ok := r.bySlot[key]; ok && render.Matches(seg) {
			live[key] = true
		}
	}
	dropped := 0
	for key := range r.bySlot {
		if !live[key] {
			delete(r.bySlot, key)
			dropped++
		}
	}
	return dropped
}

func (r *Renders) Len() int {
	return len(r.bySlot)
}
