package subtitle

// Every mutating method returns a new Track and leaves the receiver untouched,
// so a snapshot held by an in-flight reader is never observed to change.

func (t Track) Len() int {
	return len(t.Cues)
}

// Clone returns a Track with its own cue slice.
func (t Track) Clone() Track {
	cues := make([]Cue, len(t.Cues))
	copy(cues, t.Cues)
	return Track{VideoURL: t.VideoURL, Cues: cues}
}

// CueAt returns the index of the first cue whose range contains positionMs,
// or -1 when the position falls in a gap.
func (t Track) CueAt(positionMs int64) int {
	for i, cue := range t.Cues {
		if cue.Contains(positionMs) {
			return i
		}
	}
	return -1
}

// TextAt returns the text at index, or "" for a slot the track does not have.
func (t Track) TextAt(index int) string {
	if index < 0 || index >= len(t.Cues) {
		return ""
	}
	return t.Cues[index].Text
}

// SetCueText replaces the text at index. A destination track shorter than
// index+1 is padded from src: each missing slot copies the source cue's
// timing with empty text. Returns false, and t unchanged, when index is
// outside both tracks.
func (t Track) SetCueText(src Track, index int, text string) (Track, bool) {
	if index < 0 {
		return t, false
	}
	if index >= len(t.Cues) && index >= len(src.Cues) {
		return t, false
	}

	next := t.padTo(src, index+1)
	next.Cues[index].Text = text
	return next, true
}

// AppendCueText appends fragment to the text at index, padding like SetCueText.
func (t Track) AppendCueText(src Track, index int, fragment string) (Track, bool) {
	return t.SetCueText(src, index, t.TextAt(index)+fragment)
}

// Aligned returns the destination track padded to the source length, which
// is the shape every per-index consumer (exports, dubbing reset) expects.
func (t Track) Aligned(src Track) Track {
	return t.padTo(src, len(src.Cues))
}

func (t Track) padTo(src Track, n int) Track {
	next := t.Clone()
	if next.VideoURL == "" {
		next.VideoURL = src.VideoURL
	}
	for i := len(next.Cues); i < n; i++ {
		var cue Cue
		if i < len(src.Cues) {
			cue = Cue{From: src.Cues[i].From, To: src.Cues[i].To}
		}
		next.Cues = append(next.Cues, cue)
	}
	return next
}

// Untranslated lists source indexes whose destination text is still empty.
func (t Track) Untranslated(src Track) []int {
	var out []int
	for i, cue := range src.Cues {
		if cue.Text == "" {
			continue
		}
		if t.TextAt(i) == "" {
			out = append(out, i)
		}
	}
	return out
}
