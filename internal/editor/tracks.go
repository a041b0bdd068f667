package editor

import (
	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/subtitle"
)

// CueAt is the cue index playing at positionMs, or -1.
func (s *Session) CueAt(positionMs int64) int {
	return s.src.CueAt(positionMs)
}

func (s *Session) ActiveOST(positionMs int64) []int {
	return s.ost.ActiveItems(positionMs)
}

func (s *Session) SetCueText(index int, text string) bool {
	next, ok := s.dst.SetCueText(s.src, index, text)
	return apply(s, &s.dst, next, ok)
}

func (s *Session) DuplicateOST(index int) bool {
	next, ok := s.ost.Duplicate(index)
	return apply(s, &s.ost, next, ok)
}

func (s *Session) RemoveOST(index int) bool {
	next, ok := s.ost.Remove(index)
	return apply(s, &s.ost, next, ok)
}

func (s *Session) SetOSTPosition(index int, pos subtitle.Position) bool {
	next, ok := s.ost.SetPosition(index, pos)
	return apply(s, &s.ost, next, ok)
}

func (s *Session) SetOSTText(index int, text string) bool {
	next, ok := s.ost.SetText(index, text)
	return apply(s, &s.ost, next, ok)
}

func (s *Session) AddOST(item subtitle.OSTItem) {
	next := append(s.ost.Clone(), item)
	apply(s, &s.ost, next, true)
}

// ResetDubbing rebuilds the dubbing track from the destination cues.
func (s *Session) ResetDubbing() {
	apply(s, &s.dubbing, dubbing.ResetFromSubtitle(s.alignedDst(), s.voice), true)
	s.pruneRenders()
}

func (s *Session) MergeDown(index int) bool {
	next, ok := s.dubbing.MergeDown(index)
	if !apply(s, &s.dubbing, next, ok) {
		return false
	}
	s.pruneRenders()
	return true
}

func (s *Session) UnmergeAll(index int) bool {
	next, ok := s.dubbing.UnmergeAll(index, s.alignedDst())
	if !apply(s, &s.dubbing, next, ok) {
		return false
	}
	s.pruneRenders()
	return true
}

// drops renders that no segment of the current track can use
func (s *Session) pruneRenders() {
	if s.engine == nil {
		return
	}
	if n := s.engine.Renders().Prune(s.dubbing); n > 0 {
		s.logger.Debugw("Pruned stale renders", "dropped", n, "kept", s.engine.Renders().Len())
	}
}

func (s *Session) InsertBreak(index, cursor int) bool {
	next, ok := s.dubbing.InsertBreak(index, cursor)
	return apply(s, &s.dubbing, next, ok)
}

func (s *Session) SetSegmentText(index int, text string) bool {
	next, ok := s.dubbing.SetText(index, text)
	return apply(s, &s.dubbing, next, ok)
}

func (s *Session) SetVoice(index int, voice string) bool {
	next, ok := s.dubbing.SetVoice(index, voice)
	return apply(s, &s.dubbing, next, ok)
}
