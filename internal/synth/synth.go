package synth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Synthesizer turns SSML into raw 16 kHz mono 16-bit PCM.
type Synthesizer interface {
	Synthesize(ctx context.Context, ssml string) ([]byte, error)
}

const DefaultOutputFormat = "raw-16khz-16bit-mono-pcm"

type HTTPOptions struct {
	Endpoint     string
	Key          string
	OutputFormat string
	UserAgent    string
	Timeout      time.Duration
}

// HTTPSynthesizer posts SSML to a speech REST endpoint. It does not retry.
type HTTPSynthesizer struct {
	client  *http.Client
	options HTTPOptions
}

func NewHTTPSynthesizer(opts HTTPOptions) (*HTTPSynthesizer, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("speech endpoint is required")
	}
	if opts.Key == "" {
		return nil, fmt.Errorf("speech key is required")
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = DefaultOutputFormat
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "subdub"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &HTTPSynthesizer{
		client:  &http.Client{Timeout: opts.Timeout},
		options: opts,
	}, nil
}

func (s *HTTPSynthesizer) Synthesize(
	ctx context.Context,
	ssml string,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.options.Endpoint,
		bytes.NewBufferString(ssml),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", s.options.OutputFormat)
	req.Header.Set("Ocp-Apim-Subscription-Key", s.options.Key)
	req.Header.Set("User-Agent", s.options.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"synthesis failed: unexpected status %s (body: %s)",
			resp.Status,
			truncateString(string(body), 200),
		)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	return body, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
