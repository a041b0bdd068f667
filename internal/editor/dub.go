package editor

import (
	"context"
	"errors"

	"github.com/mgpai22/subdub/internal/audio"
	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/subtitle"
	"github.com/mgpai22/subdub/internal/translate"
)

var ErrNoEngine = errors.New("session has no dubbing engine")

func (s *Session) requireEngine() error {
	if s.engine == nil {
		return ErrNoEngine
	}
	return nil
}

// Synthesize renders one segment. A failure leaves its previous render.
func (s *Session) Synthesize(ctx context.Context, index int) (dubbing.Render, error) {
	if err := s.requireEngine(); err != nil {
		return dubbing.Render{}, err
	}
	return s.engine.SynthesizeIndex(ctx, s.dubbing, index)
}

func (s *Session) SynthesizeAll(ctx context.Context, opts dubbing.BatchOptions) (dubbing.BatchResult, error) {
	if err := s.requireEngine(); err != nil {
		return dubbing.BatchResult{}, err
	}
	return s.engine.SynthesizeAll(ctx, s.dubbing, opts)
}

func (s *Session) ApplyRateHint(ctx context.Context, index int) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	next, _, err := s.engine.ApplyRateHint(ctx, s.dubbing, index)
	if err != nil {
		return err
	}
	apply(s, &s.dubbing, next, true)
	return nil
}

func (s *Session) ClearRate(ctx context.Context, index int) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	next, _, err := s.engine.ClearRate(ctx, s.dubbing, index)
	if err != nil {
		return err
	}
	apply(s, &s.dubbing, next, true)
	return nil
}

// AutoCorrect applies every available rate hint and returns the changed
// segment indexes.
func (s *Session) AutoCorrect(ctx context.Context) ([]int, error) {
	if err := s.requireEngine(); err != nil {
		return nil, err
	}
	next, changed, err := s.engine.AutoCorrect(ctx, s.dubbing)
	apply(s, &s.dubbing, next, len(changed) > 0)
	return changed, err
}

func (s *Session) Report() []dubbing.Alignment {
	if s.engine == nil {
		return nil
	}
	return s.engine.Report(s.dubbing)
}

// Timeline composes the dubbing audio from the current renders.
func (s *Session) Timeline() (*audio.Timeline, error) {
	if err := s.requireEngine(); err != nil {
		return nil, err
	}
	return s.engine.Timeline(s.dubbing), nil
}

// AutoFill streams translations into every empty destination cue. Partial
// text from an aborted run stays in the session.
func (s *Session) AutoFill(ctx context.Context, streamer translate.Streamer, opts translate.FillOptions) (translate.FillResult, error) {
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	onUpdate := opts.OnUpdate
	opts.OnUpdate = func(dst subtitle.Track, index int) {
		apply(s, &s.dst, dst, true)
		if onUpdate != nil {
			onUpdate(dst, index)
		}
	}

	dst, res, err := translate.AutoFill(ctx, streamer, s.src, s.dst, opts)
	s.dst = dst
	return res, err
}
