package translate

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// implements Streamer using Google Gemini
type GeminiStreamer struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiStreamer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiStreamer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiStreamer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (s *GeminiStreamer) Stream(
	ctx context.Context,
	req Request,
	out chan<- string,
) error {
	parts := []*genai.Part{
		genai.NewPartFromText(BuildPrompt(s.options, req)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	for result, err := range s.client.Models.GenerateContentStream(ctx, s.model, contents, nil) {
		if err != nil {
			return fmt.Errorf("gemini stream failed: %w", err)
		}
		if err := emit(ctx, out, responseText(result)); err != nil {
			return err
		}
	}
	return nil
}

// text of the first candidate, skipping thought parts
func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var text string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" && !part.Thought {
			text += part.Text
		}
	}
	return text
}
