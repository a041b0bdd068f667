package subtitle

// single subtitle entry; offsets are milliseconds on the media timeline
type Cue struct {
	From int64  `json:"from"`
	To   int64  `json:"to"`
	Text string `json:"text"`
}

// Duration of the cue's slot in milliseconds.
func (c Cue) Duration() int64 {
	return c.To - c.From
}

// Contains reports whether pos lies within [From, To], both ends inclusive.
func (c Cue) Contains(pos int64) bool {
	return pos >= c.From && pos <= c.To
}

// Track is an ordered cue sequence. Cue index is both identity and order,
// and maps 1:1 by position between the source and destination tracks.
type Track struct {
	VideoURL string
	Cues     []Cue
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)
