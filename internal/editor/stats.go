package editor

import "github.com/mgpai22/subdub/internal/dubbing"

type Stats struct {
	Cues         int
	Translated   int
	Untranslated int
	OSTItems     int
	OSTWarnings  int
	Dubbing      dubbing.Stats
}

func (s *Session) Stats() Stats {
	untranslated := len(s.dst.Untranslated(s.src))
	st := Stats{
		Cues:         s.src.Len(),
		Translated:   s.src.Len() - untranslated,
		Untranslated: untranslated,
		OSTItems:     len(s.ost),
		OSTWarnings:  len(s.ost.Warnings()),
	}
	if s.engine != nil {
		st.Dubbing = s.engine.Stats(s.dubbing)
	} else {
		st.Dubbing = dubbing.Stats{
			Segments:      len(s.dubbing),
			BreakDuration: dubbing.TotalBreakDuration(s.dubbing),
		}
	}
	return st
}
