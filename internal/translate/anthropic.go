package translate

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// implements Streamer using Anthropic Claude message streaming
type AnthropicStreamer struct {
	client  anthropic.Client
	model   anthropic.Model
	options Options
}

func NewAnthropicStreamer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*AnthropicStreamer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicStreamer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (s *AnthropicStreamer) Stream(
	ctx context.Context,
	req Request,
	out chan<- string,
) error {
	stream := s.client.Messages.NewStreaming(
		ctx,
		anthropic.MessageNewParams{
			Model:     s.model,
			MaxTokens: s.options.maxTokens(),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(BuildPrompt(s.options, req)),
				),
			},
		},
	)
	defer stream.Close()

	for stream.Next() {
		event, ok := stream.Current().AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		delta, ok := event.Delta.AsAny().(anthropic.TextDelta)
		if !ok {
			continue
		}
		if err := emit(ctx, out, delta.Text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic stream failed: %w", err)
	}
	return nil
}
