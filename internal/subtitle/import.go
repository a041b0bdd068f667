package subtitle

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astisub"
)

// Import reads any subtitle file go-astisub understands (srt, vtt, ssa/ass,
// ttml, stl) into a Track. Multi-line items are joined with "\n".
func Import(path string) (Track, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return Track{}, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	return fromAstisub(subs), nil
}

// ImportReader parses r in the given format.
func ImportReader(r io.Reader, format Format) (Track, error) {
	var (
		subs *astisub.Subtitles
		err  error
	)
	switch format {
	case FormatSRT:
		subs, err = astisub.ReadFromSRT(r)
	case FormatVTT:
		subs, err = astisub.ReadFromWebVTT(r)
	case FormatASS:
		subs, err = astisub.ReadFromSSA(r)
	default:
		return Track{}, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return Track{}, fmt.Errorf("failed to parse %s: %w", format, err)
	}
	return fromAstisub(subs), nil
}

func fromAstisub(subs *astisub.Subtitles) Track {
	cues := make([]Cue, 0, len(subs.Items))
	for _, item := range subs.Items {
		lines := make([]string, 0, len(item.Lines))
		for _, line := range item.Lines {
			if s := strings.TrimSpace(line.String()); s != "" {
				lines = append(lines, s)
			}
		}
		cues = append(cues, Cue{
			From: item.StartAt.Milliseconds(),
			To:   item.EndAt.Milliseconds(),
			Text: strings.Join(lines, "\n"),
		})
	}
	return Track{Cues: cues}
}

// IsSubtitleFile checks the extension against formats Import accepts.
func IsSubtitleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt", ".vtt", ".ass", ".ssa", ".ttml", ".stl":
		return true
	}
	return false
}
