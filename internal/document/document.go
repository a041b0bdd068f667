package document

import (
	"encoding/json"
	"fmt"

	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/subtitle"
)

// Payload is one side (source or destination) of a persisted document.
type Payload struct {
	VideoURL string            `json:"videoUrl"`
	Subtitle []subtitle.Cue    `json:"subtitle"`
	OST      subtitle.OSTTrack `json:"ost,omitempty"`
	Dubbing  dubbing.Track     `json:"dubbing,omitempty"`
}

func (p Payload) Track() subtitle.Track {
	return subtitle.Track{
		VideoURL: p.VideoURL,
		Cues:     append([]subtitle.Cue(nil), p.Subtitle...),
	}
}

func NewPayload(track subtitle.Track, ost subtitle.OSTTrack, dub dubbing.Track) Payload {
	cues := track.Cues
	if cues == nil {
		cues = []subtitle.Cue{}
	}
	return Payload{
		VideoURL: track.VideoURL,
		Subtitle: cues,
		OST:      ost,
		Dubbing:  dub,
	}
}

func Encode(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(data), nil
}
