package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgpai22/subdub/internal/subtitle"
)

// scriptedStreamer answers each request with fixed fragments.
type scriptedStreamer struct {
	mu        sync.Mutex
	fragments map[string][]string
	fail      map[string]error
	requests  []Request
}

func (s *scriptedStreamer) Stream(ctx context.Context, req Request, out chan<- string) error {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if err := s.fail[req.Text]; err != nil {
		return err
	}
	for _, f := range s.fragments[req.Text] {
		if err := emit(ctx, out, f); err != nil {
			return err
		}
	}
	return nil
}

func srcTrack() subtitle.Track {
	return subtitle.Track{
		VideoURL: "https://cdn.example.com/lesson1.mp4",
		Cues: []subtitle.Cue{
			{From: 0, To: 1000, Text: "Hello"},
			{From: 1000, To: 2000, Text: "Good morning"},
			{From: 2000, To: 3000, Text: "Goodbye"},
		},
	}
}

func TestAutoFillFillsEmptyCuesInOrder(t *testing.T) {
	src := srcTrack()
	dst := subtitle.Track{Cues: []subtitle.Cue{{From: 0, To: 1000, Text: "Hola"}}}
	s := &scriptedStreamer{fragments: map[string][]string{
		"Good morning": {"Buenos", " días "},
		"Goodbye":      {"Adiós"},
	}}

	var updates []int
	got, res, err := AutoFill(context.Background(), s, src, dst, FillOptions{
		Character: "Narrator",
		OnUpdate:  func(_ subtitle.Track, index int) { updates = append(updates, index) },
	})
	if err != nil {
		t.Fatalf("AutoFill: %v", err)
	}

	want := []string{"Hola", "Buenos días", "Adiós"}
	for i, w := range want {
		if got.TextAt(i) != w {
			t.Errorf("cue %d = %q, want %q", i, got.TextAt(i), w)
		}
	}
	if got.Cues[2].From != 2000 || got.Cues[2].To != 3000 {
		t.Errorf("padded cue should take source timing: %+v", got.Cues[2])
	}
	if diff := cmp.Diff([]int{1, 2}, res.Filled); diff != "" {
		t.Errorf("filled (-want +got):\n%s", diff)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	if len(s.requests) != 2 || s.requests[0].Text != "Good morning" || s.requests[0].Character != "Narrator" {
		t.Errorf("unexpected requests: %+v", s.requests)
	}
	// two fragments plus the trim for cue 1, one fragment for cue 2
	if diff := cmp.Diff([]int{1, 1, 1, 2}, updates); diff != "" {
		t.Errorf("updates (-want +got):\n%s", diff)
	}
	if dst.Len() != 1 {
		t.Error("input destination track was modified")
	}
}

// cancelingStreamer emits one fragment, cancels, then blocks until the
// context is done like a real in-flight request.
type cancelingStreamer struct {
	cancel context.CancelFunc
	calls  int
}

func (s *cancelingStreamer) Stream(ctx context.Context, req Request, out chan<- string) error {
	s.calls++
	if err := emit(ctx, out, "Buen"); err != nil {
		return err
	}
	s.cancel()
	<-ctx.Done()
	return ctx.Err()
}

func TestAutoFillCancelKeepsPartialText(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &cancelingStreamer{cancel: cancel}

	got, res, err := AutoFill(ctx, s, srcTrack(), subtitle.Track{}, FillOptions{BufferSize: 1})
	if !errors.Is(err, ErrAborted) || !IsAborted(err) {
		t.Fatalf("expected abort, got %v", err)
	}
	if got.TextAt(0) != "Buen" {
		t.Errorf("partial text = %q, want %q", got.TextAt(0), "Buen")
	}
	if len(res.Filled) != 0 {
		t.Errorf("no cue should count as filled: %v", res.Filled)
	}
	if s.calls != 1 {
		t.Errorf("expected one stream, got %d", s.calls)
	}
}

func TestAutoFillResumesAfterAbort(t *testing.T) {
	src := srcTrack()
	partial := subtitle.Track{Cues: []subtitle.Cue{{From: 0, To: 1000, Text: "Hol"}}}
	s := &scriptedStreamer{fragments: map[string][]string{
		"Hello":        {"should not be requested"},
		"Good morning": {"Buenos días"},
		"Goodbye":      {"Adiós"},
	}}

	got, _, err := AutoFill(context.Background(), s, src, partial, FillOptions{})
	if err != nil {
		t.Fatalf("AutoFill: %v", err)
	}
	if got.TextAt(0) != "Hol" {
		t.Errorf("existing text should be kept, got %q", got.TextAt(0))
	}
	for _, r := range s.requests {
		if r.Text == "Hello" {
			t.Error("non-empty destination cue was re-translated")
		}
	}
}

func TestAutoFillCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &scriptedStreamer{}

	_, _, err := AutoFill(ctx, s, srcTrack(), subtitle.Track{}, FillOptions{})
	if !IsAborted(err) {
		t.Fatalf("expected abort, got %v", err)
	}
	if len(s.requests) != 0 {
		t.Error("no stream should start once canceled")
	}
}

func TestAutoFillStopsOnStreamError(t *testing.T) {
	boom := errors.New("upstream 500")
	s := &scriptedStreamer{
		fragments: map[string][]string{"Hello": {"Hola"}},
		fail:      map[string]error{"Good morning": boom},
	}

	got, res, err := AutoFill(context.Background(), s, srcTrack(), subtitle.Track{}, FillOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected stream error, got %v", err)
	}
	if IsAborted(err) {
		t.Error("a stream failure is not an abort")
	}
	if got.TextAt(0) != "Hola" || got.TextAt(2) != "" {
		t.Errorf("unexpected destination: %+v", got.Cues)
	}
	if len(res.Filled) != 1 {
		t.Errorf("filled = %v", res.Filled)
	}
	if !strings.Contains(err.Error(), "cue 1") {
		t.Errorf("error should name the cue: %v", err)
	}
}
