package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request is one unit of auto-fill work: a single cue's text plus the
// course context the translator should honour.
type Request struct {
	Text       string
	Character  string
	Background string
	Syllabus   string
}

// Streamer delivers a translation incrementally. Implementations send each
// text fragment on out as it arrives and return once the stream closes.
// They must not close out.
type Streamer interface {
	Stream(ctx context.Context, req Request, out chan<- string) error
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	MaxTokens      int64 // default 1024
}

func (o Options) maxTokens() int64 {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return 1024
}

// ErrAborted marks a run stopped by the caller rather than by a failure.
var ErrAborted = errors.New("translation aborted")

// IsAborted reports whether err is a user cancellation.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled)
}

// creates Streamer based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Streamer, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiStreamer(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAIStreamer(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicStreamer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, req Request) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s subtitle line of an online course video to %s.\n\n",
			opts.InputLanguage,
			opts.TargetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following subtitle line of an online course video to %s.\n\n",
			opts.TargetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Keep the speaker's tone and register.\n")
	sb.WriteString("3. Keep it short enough to be read within the same time slot.\n")
	sb.WriteString("4. Output the translated line only, with no quotes, notes or markdown.\n\n")

	if req.Character != "" {
		sb.WriteString(fmt.Sprintf("Speaker: %s\n", req.Character))
	}
	if req.Background != "" {
		sb.WriteString(fmt.Sprintf("Course background: %s\n", req.Background))
	}
	if req.Syllabus != "" {
		sb.WriteString(fmt.Sprintf("Syllabus:\n%s\n", req.Syllabus))
	}
	if opts.Prompt != "" {
		sb.WriteString(fmt.Sprintf("Additional instructions: %s\n", opts.Prompt))
	}

	sb.WriteString("\nLine:\n")
	sb.WriteString(req.Text)

	return sb.String()
}

// emit hands one fragment to the consumer, giving up when ctx is done.
func emit(ctx context.Context, out chan<- string, fragment string) error {
	if fragment == "" {
		return nil
	}
	select {
	case out <- fragment:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
