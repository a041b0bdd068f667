package editor

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/subdub/internal/subtitle"
)

// Export is one downloadable artifact.
type Export struct {
	Name    string
	Format  subtitle.Format
	Content string
}

// Exports renders the source and destination tracks under the standard
// file names: <title>.src.{vtt,srt} and <title>.translated.{vtt,srt,ass}.
// The ASS file carries the OST overlay.
func (s *Session) Exports(title string, opts subtitle.ASSOptions) ([]Export, error) {
	if title == "" {
		title = s.title
	}
	if opts.Title == "" {
		opts.Title = title
	}
	dst := s.alignedDst().Cues

	plan := []struct {
		suffix string
		format subtitle.Format
		cues   []subtitle.Cue
	}{
		{".src", subtitle.FormatVTT, s.src.Cues},
		{".src", subtitle.FormatSRT, s.src.Cues},
		{".translated", subtitle.FormatVTT, dst},
		{".translated", subtitle.FormatSRT, dst},
		{".translated", subtitle.FormatASS, dst},
	}

	exports := make([]Export, 0, len(plan))
	for _, p := range plan {
		content, err := subtitle.Render(p.format, p.cues, s.ost, opts)
		if err != nil {
			return nil, err
		}
		exports = append(exports, Export{
			Name:    title + p.suffix + subtitle.GetExtensionForFormat(p.format),
			Format:  p.format,
			Content: content,
		})
	}
	return exports, nil
}

// WriteExports writes every export into dir and returns the paths.
func (s *Session) WriteExports(dir, title string, opts subtitle.ASSOptions) ([]string, error) {
	exports, err := s.Exports(title, opts)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range exports {
		path := filepath.Join(dir, e.Name)
		if err := subtitle.WriteFile(path, e.Content); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", e.Name, err)
		}
		paths = append(paths, path)
	}
	s.logger.Infow("Exports written", "dir", dir, "files", len(paths))
	return paths, nil
}
