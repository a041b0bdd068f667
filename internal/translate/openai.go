package translate

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Streamer using OpenAI Chat Completions streaming
type OpenAIStreamer struct {
	client  openai.Client
	model   string
	options Options
}

func NewOpenAIStreamer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAIStreamer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "gpt-5-mini"
	}

	return &OpenAIStreamer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (s *OpenAIStreamer) Stream(
	ctx context.Context,
	req Request,
	out chan<- string,
) error {
	stream := s.client.Chat.Completions.NewStreaming(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(BuildPrompt(s.options, req)),
			},
			Model: s.model,
		},
	)
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if err := emit(ctx, out, chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai stream failed: %w", err)
	}
	return nil
}
