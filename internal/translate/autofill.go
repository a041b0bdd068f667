package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/subdub/internal/logging"
	"github.com/mgpai22/subdub/internal/subtitle"
)

const DefaultBufferSize = 32

type FillOptions struct {
	Character  string
	Background string
	Syllabus   string
	// BufferSize bounds the fragment channel between stream and consumer.
	BufferSize int
	Logger     *logging.Logger
	// OnUpdate receives every new destination snapshot, one per fragment.
	OnUpdate func(dst subtitle.Track, index int)
}

func (o FillOptions) bufferSize() int {
	if o.BufferSize > 0 {
		return o.BufferSize
	}
	return DefaultBufferSize
}

type FillResult struct {
	Filled  []int
	Skipped int
}

// AutoFill translates every source cue whose destination text is empty, one
// stream per cue in document order, appending fragments to the destination
// as they arrive. Cancellation is checked before each cue and interrupts
// the in-flight stream; text already appended is kept and the error wraps
// ErrAborted. Running it again resumes with the cues still empty.
func AutoFill(
	ctx context.Context,
	s Streamer,
	src, dst subtitle.Track,
	opts FillOptions,
) (subtitle.Track, FillResult, error) {
	logger := logging.OrNop(opts.Logger)
	pending := dst.Untranslated(src)
	res := FillResult{Skipped: len(src.Cues) - len(pending)}

	for _, index := range pending {
		if err := ctx.Err(); err != nil {
			return dst, res, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		req := Request{
			Text:       src.Cues[index].Text,
			Character:  opts.Character,
			Background: opts.Background,
			Syllabus:   opts.Syllabus,
		}

		var err error
		dst, err = fillOne(ctx, s, req, src, dst, index, opts)
		if err != nil {
			if ctx.Err() != nil {
				logger.Infow("Auto-fill aborted", "index", index, "filled", len(res.Filled))
				return dst, res, fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
			}
			return dst, res, fmt.Errorf("translate cue %d: %w", index, err)
		}
		res.Filled = append(res.Filled, index)
		logger.Debugw("Cue translated", "index", index, "text", dst.TextAt(index))
	}

	logger.Infow("Auto-fill complete", "filled", len(res.Filled), "skipped", res.Skipped)
	return dst, res, nil
}

// fillOne runs a single stream. The producer goroutine owns the channel and
// closes it when the stream ends; the consumer applies fragments in order.
func fillOne(
	ctx context.Context,
	s Streamer,
	req Request,
	src, dst subtitle.Track,
	index int,
	opts FillOptions,
) (subtitle.Track, error) {
	fragments := make(chan string, opts.bufferSize())
	done := make(chan error, 1)

	go func() {
		defer close(fragments)
		done <- s.Stream(ctx, req, fragments)
	}()

	for fragment := range fragments {
		next, ok := dst.AppendCueText(src, index, fragment)
		if !ok {
			continue
		}
		dst = next
		if opts.OnUpdate != nil {
			opts.OnUpdate(dst, index)
		}
	}

	if err := <-done; err != nil {
		return dst, err
	}

	if trimmed := strings.TrimSpace(dst.TextAt(index)); trimmed != dst.TextAt(index) {
		dst, _ = dst.SetCueText(src, index, trimmed)
		if opts.OnUpdate != nil {
			opts.OnUpdate(dst, index)
		}
	}
	return dst, nil
}
