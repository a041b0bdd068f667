package dubbing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mgpai22/subdub/internal/audio"
	"github.com/mgpai22/subdub/internal/logging"
	"github.com/mgpai22/subdub/internal/synth"
)

var (
	ErrNoRender        = errors.New("segment has no rendered audio")
	ErrRateOutOfRange  = errors.New("rate hint outside auto-correct window")
	ErrSegmentNotFound = errors.New("segment index out of range")
)

// Engine synthesizes dubbing segments and keeps their renders.
type Engine struct {
	synth   synth.Synthesizer
	renders *Renders
	logger  *logging.Logger
}

func NewEngine(s synth.Synthesizer, logger *logging.Logger) *Engine {
	return &Engine{
		synth:   s,
		renders: NewRenders(),
		logger:  logging.OrNop(logger),
	}
}

func (e *Engine) Renders() *Renders {
	return e.renders
}

// Synthesize renders one segment. On failure any previous render is left in
// place and the error is returned.
func (e *Engine) Synthesize(ctx context.Context, seg Segment) (Render, error) {
	pcm, err := e.synth.Synthesize(ctx, seg.SSML())
	if err != nil {
		e.logger.Warnw("Synthesis failed", "from", seg.From, "error", err)
		return Render{}, fmt.Errorf("synthesize segment at %dms: %w", seg.From, err)
	}
	render := e.renders.Store(seg, pcm)
	e.logger.Debugw("Synthesized segment",
		"from", seg.From,
		"target", seg.Target(),
		"audio", render.Duration,
	)
	return render, nil
}

// SynthesizeIndex renders track[i].
func (e *Engine) SynthesizeIndex(ctx context.Context, track Track, i int) (Render, error) {
	if !track.valid(i) {
		return Render{}, fmt.Errorf("%w: %d", ErrSegmentNotFound, i)
	}
	return e.Synthesize(ctx, track[i])
}

type BatchOptions struct {
	// Force re-renders segments that already have a matching render.
	Force bool
	// OnProgress, when set, is called after each attempted segment.
	OnProgress func(done, total int)
}

type BatchResult struct {
	Synthesized int
	Cached      int
	// Skipped counts segments with nothing to speak.
	Skipped int
	Failed  []int
}

// Speakable reports whether seg has text left once pause markers are removed.
func (s Segment) Speakable() bool {
	return strings.TrimSpace(synth.StripBreaks(s.Text)) != ""
}

// SynthesizeAll renders segments one at a time in order. Segments without
// speakable text are skipped. A failed segment is recorded and the batch
// continues; cancellation stops it before the next segment starts.
func (e *Engine) SynthesizeAll(ctx context.Context, track Track, opts BatchOptions) (BatchResult, error) {
	var res BatchResult
	for i, seg := range track {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !seg.Speakable() {
			res.Skipped++
			e.progress(opts, i+1, len(track))
			continue
		}
		if !opts.Force {
			if _, ok := e.renders.Lookup(seg); ok {
				res.Cached++
				e.progress(opts, i+1, len(track))
				continue
			}
		}
		if _, err := e.Synthesize(ctx, seg); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed = append(res.Failed, i)
		} else {
			res.Synthesized++
		}
		e.progress(opts, i+1, len(track))
	}

	e.logger.Infow("Synthesis complete",
		"segments", len(track),
		"synthesized", res.Synthesized,
		"cached", res.Cached,
		"skipped", res.Skipped,
		"failed", len(res.Failed),
	)
	return res, nil
}

func (e *Engine) progress(opts BatchOptions, done, total int) {
	if opts.OnProgress != nil {
		opts.OnProgress(done, total)
	}
}

// ApplyRateHint sets track[i]'s rate to its alignment hint and re-renders.
// It refuses when the hint is outside the auto-correct window.
func (e *Engine) ApplyRateHint(ctx context.Context, track Track, i int) (Track, Render, error) {
	if !track.valid(i) {
		return track, Render{}, fmt.Errorf("%w: %d", ErrSegmentNotFound, i)
	}
	render, ok := e.renders.Lookup(track[i])
	if !ok {
		return track, Render{}, ErrNoRender
	}
	a := Align(track[i], render, true)
	if !a.CanAutoCorrect {
		return track, Render{}, fmt.Errorf("%w: %.3f", ErrRateOutOfRange, a.RateHint)
	}

	next, _ := track.SetRate(i, a.RateHint)
	render, err := e.Synthesize(ctx, next[i])
	if err != nil {
		return track, Render{}, err
	}
	return next, render, nil
}

// ClearRate resets track[i]'s rate to 0 and re-renders.
func (e *Engine) ClearRate(ctx context.Context, track Track, i int) (Track, Render, error) {
	next, ok := track.SetRate(i, 0)
	if !ok {
		return track, Render{}, fmt.Errorf("%w: %d", ErrSegmentNotFound, i)
	}
	render, err := e.Synthesize(ctx, next[i])
	if err != nil {
		return track, Render{}, err
	}
	return next, render, nil
}

// AutoCorrect applies every available rate hint in turn and returns the
// indexes it changed. Failures are logged and skipped.
func (e *Engine) AutoCorrect(ctx context.Context, track Track) (Track, []int, error) {
	var changed []int
	for i := range track {
		if err := ctx.Err(); err != nil {
			return track, changed, err
		}
		render, ok := e.renders.Lookup(track[i])
		if !ok || !Align(track[i], render, true).CanAutoCorrect {
			continue
		}
		next, _, err := e.ApplyRateHint(ctx, track, i)
		if err != nil {
			e.logger.Warnw("Rate correction failed", "index", i, "error", err)
			continue
		}
		track = next
		changed = append(changed, i)
	}
	return track, changed, nil
}

// Clips maps the track onto the audio timeline, attaching each segment's
// render when one matches.
func (e *Engine) Clips(track Track) []audio.Clip {
	return Clips(track, e.renders)
}

// Timeline composes the full dubbing audio.
func (e *Engine) Timeline(track Track) *audio.Timeline {
	return audio.MergeTimeline(e.Clips(track))
}
