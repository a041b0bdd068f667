package editor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/subdub/internal/audio"
	"github.com/mgpai22/subdub/internal/document"
	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/subtitle"
	"github.com/mgpai22/subdub/internal/translate"
)

// one second of audio for any request
type fixedSynth struct{}

func (fixedSynth) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return make([]byte, audio.BytesPerSecond), nil
}

type echoStreamer struct{}

func (echoStreamer) Stream(ctx context.Context, req translate.Request, out chan<- string) error {
	select {
	case out <- "[es] " + req.Text:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newSession(t *testing.T) (*Session, document.Store) {
	t.Helper()
	store, err := document.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := subtitle.Track{
		VideoURL: "https://cdn.example.com/lesson.mp4",
		Cues: []subtitle.Cue{
			{From: 0, To: 1500, Text: "Hello"},
			{From: 1500, To: 3000, Text: "World"},
		},
	}
	s, err := Create(context.Background(), "lesson", src, Options{
		Store:  store,
		Engine: dubbing.NewEngine(fixedSynth{}, nil),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return s, store
}

func TestCreateStartsClean(t *testing.T) {
	s, _ := newSession(t)
	if s.Dirty() {
		t.Error("new session should not be dirty")
	}
	if s.Dst().Len() != 0 || s.Dst().VideoURL != s.Src().VideoURL {
		t.Errorf("unexpected destination: %+v", s.Dst())
	}
	if s.CueAt(1600) != 1 || s.CueAt(5000) != -1 {
		t.Error("cue lookup through session failed")
	}
}

func TestMutationsMarkDirtyAndSaveClears(t *testing.T) {
	s, store := newSession(t)

	if s.SetCueText(9, "x") {
		t.Error("out of range edit should be a no-op")
	}
	if s.Dirty() {
		t.Error("no-op must not mark dirty")
	}

	if !s.SetCueText(1, "Mundo") {
		t.Fatal("expected edit to apply")
	}
	if !s.Dirty() {
		t.Error("edit should mark dirty")
	}
	if s.Dst().TextAt(0) != "" || s.Dst().TextAt(1) != "Mundo" {
		t.Errorf("unexpected destination: %+v", s.Dst().Cues)
	}

	before := s.SavedAt()
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty() {
		t.Error("save should clear dirty")
	}
	if s.SavedAt().Before(before) {
		t.Error("save time should advance")
	}

	reopened, err := Open(context.Background(), s.ID(), Options{Store: store})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.Dst().TextAt(1) != "Mundo" {
		t.Errorf("saved text lost: %+v", reopened.Dst().Cues)
	}
}

func TestDubbingWorkflow(t *testing.T) {
	s, store := newSession(t)
	ctx := context.Background()
	s.SetCueText(0, "Hola")
	s.SetCueText(1, "Mundo")

	s.ResetDubbing()
	if len(s.Dubbing()) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(s.Dubbing()))
	}
	if !s.MergeDown(0) || len(s.Dubbing()) != 1 {
		t.Fatal("merge failed")
	}
	if !s.UnmergeAll(0) || len(s.Dubbing()) != 2 {
		t.Fatal("unmerge failed")
	}
	if !s.InsertBreak(1, 2) {
		t.Fatal("insert break failed")
	}

	res, err := s.SynthesizeAll(ctx, dubbing.BatchOptions{})
	if err != nil || res.Synthesized != 2 {
		t.Fatalf("SynthesizeAll = %+v, %v", res, err)
	}

	// 1s audio in a 1.5s slot: short, no auto-correct
	for _, a := range s.Report() {
		if !a.Rendered || a.Good || a.CanAutoCorrect {
			t.Errorf("unexpected alignment: %+v", a)
		}
	}

	tl, err := s.Timeline()
	if err != nil {
		t.Fatal(err)
	}
	if tl.Duration() != 2500*time.Millisecond {
		t.Errorf("timeline = %v, want 2.5s", tl.Duration())
	}

	if err := s.Save(ctx); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(ctx, s.ID(), Options{Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if len(reopened.Dubbing()) != 2 || !strings.Contains(reopened.Dubbing()[1].Text, `<break time="100ms"/>`) {
		t.Errorf("dubbing not persisted: %+v", reopened.Dubbing())
	}
}

func TestResetDubbingUsesSessionVoice(t *testing.T) {
	s, store := newSession(t)

	voiced, err := Open(context.Background(), s.ID(), Options{Store: store, Voice: "es-MX-DaliaNeural"})
	if err != nil {
		t.Fatal(err)
	}
	voiced.SetCueText(0, "Hola")
	voiced.ResetDubbing()
	for i, seg := range voiced.Dubbing() {
		if seg.Params.Voice != "es-MX-DaliaNeural" {
			t.Errorf("segment %d voice = %q", i, seg.Params.Voice)
		}
	}
}

func TestStructuralEditsPruneRenders(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()
	s.SetCueText(0, "Hola")
	s.SetCueText(1, "Mundo")
	s.ResetDubbing()

	if _, err := s.SynthesizeAll(ctx, dubbing.BatchOptions{}); err != nil {
		t.Fatal(err)
	}
	renders := s.Engine().Renders()
	if renders.Len() != 2 {
		t.Fatalf("expected 2 renders, got %d", renders.Len())
	}

	s.MergeDown(0)
	if renders.Len() != 0 {
		t.Errorf("merge should drop both renders, %d left", renders.Len())
	}
	if _, err := s.SynthesizeAll(ctx, dubbing.BatchOptions{}); err != nil {
		t.Fatal(err)
	}
	s.UnmergeAll(0)
	if renders.Len() != 0 {
		t.Errorf("unmerge should drop the merged render, %d left", renders.Len())
	}
	if _, err := s.SynthesizeAll(ctx, dubbing.BatchOptions{}); err != nil {
		t.Fatal(err)
	}
	s.SetCueText(1, "Mundo!")
	s.ResetDubbing()
	if renders.Len() != 1 {
		t.Errorf("reset should keep only the unchanged render, %d left", renders.Len())
	}
}

func TestSessionWithoutEngine(t *testing.T) {
	s, store := newSession(t)
	bare, err := Open(context.Background(), s.ID(), Options{Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bare.Synthesize(context.Background(), 0); err != ErrNoEngine {
		t.Errorf("expected ErrNoEngine, got %v", err)
	}
	if bare.Report() != nil {
		t.Error("expected nil report without engine")
	}
}

func TestAutoFillMarksDirty(t *testing.T) {
	s, _ := newSession(t)
	s.SetCueText(0, "Hola")
	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	res, err := s.AutoFill(context.Background(), echoStreamer{}, translate.FillOptions{})
	if err != nil {
		t.Fatalf("AutoFill: %v", err)
	}
	if len(res.Filled) != 1 || s.Dst().TextAt(1) != "[es] World" {
		t.Errorf("unexpected fill: %+v %+v", res, s.Dst().Cues)
	}
	if !s.Dirty() {
		t.Error("auto-fill should mark dirty")
	}
}

func TestOSTEdits(t *testing.T) {
	s, _ := newSession(t)
	s.AddOST(subtitle.OSTItem{From: 0, To: 2000, Text: "Title"})
	if !s.DuplicateOST(0) || len(s.OST()) != 2 {
		t.Fatal("duplicate failed")
	}
	if !s.SetOSTPosition(1, subtitle.Position{XPercent: 0.25, YPercent: 0.75}) {
		t.Fatal("set position failed")
	}
	if got := s.ActiveOST(1000); len(got) != 2 {
		t.Errorf("active = %v", got)
	}
	if !s.SetOSTText(0, "a\n\nb") || s.Stats().OSTWarnings != 1 {
		t.Error("stacked line breaks should surface a warning")
	}
	if !s.RemoveOST(0) || len(s.OST()) != 1 {
		t.Error("remove failed")
	}
}

func TestExports(t *testing.T) {
	s, _ := newSession(t)
	s.SetCueText(0, "Hola")

	exports, err := s.Exports("", subtitle.DefaultASSOptions())
	if err != nil {
		t.Fatalf("Exports: %v", err)
	}
	wantNames := []string{
		"lesson.src.vtt",
		"lesson.src.srt",
		"lesson.translated.vtt",
		"lesson.translated.srt",
		"lesson.translated.ass",
	}
	if len(exports) != len(wantNames) {
		t.Fatalf("expected %d exports, got %d", len(wantNames), len(exports))
	}
	for i, name := range wantNames {
		if exports[i].Name != name {
			t.Errorf("export %d = %q, want %q", i, exports[i].Name, name)
		}
	}

	wantSrc := "1\n00:00:00,000 --> 00:00:01,500\nHello\n\n2\n00:00:01,500 --> 00:00:03,000\nWorld"
	if exports[1].Content != wantSrc {
		t.Errorf("src srt:\n%s", exports[1].Content)
	}
	// untranslated tail padded with source timing
	if !strings.Contains(exports[3].Content, "00:00:01,500 --> 00:00:03,000") {
		t.Errorf("translated srt missing padded cue:\n%s", exports[3].Content)
	}
	if !strings.HasPrefix(exports[2].Content, "WEBVTT\n\n") {
		t.Error("vtt missing header")
	}

	dir := t.TempDir()
	paths, err := s.WriteExports(dir, "", subtitle.DefaultASSOptions())
	if err != nil {
		t.Fatalf("WriteExports: %v", err)
	}
	if len(paths) != 5 {
		t.Fatalf("expected 5 files, got %d", len(paths))
	}
	data, err := os.ReadFile(filepath.Join(dir, "lesson.translated.ass"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Dialogue:") {
		t.Error("ass export has no dialogue lines")
	}
}
