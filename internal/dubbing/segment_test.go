package dubbing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgpai22/subdub/internal/subtitle"
	"github.com/mgpai22/subdub/internal/synth"
)

func testDst() subtitle.Track {
	return subtitle.Track{Cues: []subtitle.Cue{
		{From: 0, To: 1000, Text: "Hola."},
		{From: 1200, To: 2500, Text: "¿Qué tal?"},
		{From: 3000, To: 4000, Text: "Bien."},
	}}
}

func TestResetFromSubtitle(t *testing.T) {
	track := ResetFromSubtitle(testDst(), "")
	if len(track) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(track))
	}
	for i, seg := range track {
		if diff := cmp.Diff([]int{i}, seg.SubIndexes); diff != "" {
			t.Errorf("segment %d subIndexes (-want +got):\n%s", i, diff)
		}
		if seg.Params.Voice != DefaultVoice || seg.Params.Rate != 0 {
			t.Errorf("segment %d params = %+v", i, seg.Params)
		}
	}
	if track[1].From != 1200 || track[1].To != 2500 || track[1].Text != "¿Qué tal?" {
		t.Errorf("unexpected segment 1: %+v", track[1])
	}
}

func TestResetFromSubtitleUsesVoice(t *testing.T) {
	track := ResetFromSubtitle(testDst(), "es-ES-ElviraNeural")
	for i, seg := range track {
		if seg.Params.Voice != "es-ES-ElviraNeural" {
			t.Errorf("segment %d voice = %q", i, seg.Params.Voice)
		}
	}
}

func TestMergeDown(t *testing.T) {
	track := ResetFromSubtitle(testDst(), "")

	merged, ok := track.MergeDown(0)
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(merged))
	}
	want := Segment{
		From:       0,
		To:         2500,
		Text:       "Hola. ¿Qué tal?",
		SubIndexes: []int{0, 1},
		Params:     DefaultParams(),
	}
	if diff := cmp.Diff(want, merged[0]); diff != "" {
		t.Errorf("merged segment (-want +got):\n%s", diff)
	}
	if len(track) != 3 {
		t.Error("merge modified the input track")
	}

	if _, ok := track.MergeDown(2); ok {
		t.Error("merging the last segment should be a no-op")
	}
	if _, ok := track.MergeDown(-1); ok {
		t.Error("merging a negative index should be a no-op")
	}
}

func TestMergeThenUnmergeRestores(t *testing.T) {
	dst := testDst()
	track := ResetFromSubtitle(dst, "")

	merged, _ := track.MergeDown(1)
	merged, _ = merged.MergeDown(0)
	if len(merged) != 1 || len(merged[0].SubIndexes) != 3 {
		t.Fatalf("expected single segment covering all cues, got %+v", merged)
	}
	merged, _ = merged.SetVoice(0, "es-ES-ElviraNeural")
	merged, _ = merged.SetRate(0, 0.1)

	restored, ok := merged.UnmergeAll(0, dst)
	if !ok {
		t.Fatal("expected unmerge to succeed")
	}
	if len(restored) != len(track) {
		t.Fatalf("expected %d segments, got %d", len(track), len(restored))
	}
	for i := range track {
		if restored[i].From != track[i].From || restored[i].To != track[i].To || restored[i].Text != track[i].Text {
			t.Errorf("segment %d not restored: %+v", i, restored[i])
		}
		if diff := cmp.Diff(track[i].SubIndexes, restored[i].SubIndexes); diff != "" {
			t.Errorf("segment %d subIndexes (-want +got):\n%s", i, diff)
		}
		if restored[i].Params.Voice != "es-ES-ElviraNeural" {
			t.Errorf("segment %d lost voice: %q", i, restored[i].Params.Voice)
		}
		if restored[i].Params.Rate != 0 {
			t.Errorf("segment %d rate = %v, want 0", i, restored[i].Params.Rate)
		}
	}
}

func TestUnmergeNoOps(t *testing.T) {
	dst := testDst()
	track := ResetFromSubtitle(dst, "")

	if _, ok := track.UnmergeAll(0, dst); ok {
		t.Error("unmerging a singleton should be a no-op")
	}

	merged, _ := track.MergeDown(1)
	short := subtitle.Track{Cues: dst.Cues[:1]}
	if _, ok := merged.UnmergeAll(1, short); ok {
		t.Error("unmerge with missing cues should be a no-op")
	}
}

func TestInsertBreak(t *testing.T) {
	track := Track{{From: 0, To: 1000, Text: "héllo world", SubIndexes: []int{0}}}

	tests := []struct {
		cursor int
		want   string
	}{
		{5, "héllo" + synth.BreakTag + " world"},
		{0, synth.BreakTag + "héllo world"},
		{-3, synth.BreakTag + "héllo world"},
		{100, "héllo world" + synth.BreakTag},
	}
	for _, tt := range tests {
		got, ok := track.InsertBreak(0, tt.cursor)
		if !ok {
			t.Fatalf("cursor %d: expected success", tt.cursor)
		}
		if got[0].Text != tt.want {
			t.Errorf("cursor %d: got %q, want %q", tt.cursor, got[0].Text, tt.want)
		}
		if got[0].From != 0 || got[0].To != 1000 {
			t.Errorf("cursor %d: timing changed", tt.cursor)
		}
	}
	if track[0].Text != "héllo world" {
		t.Error("insert modified the input track")
	}
}

func TestSetVoiceRejectsEmpty(t *testing.T) {
	track := ResetFromSubtitle(testDst(), "")
	if _, ok := track.SetVoice(0, ""); ok {
		t.Error("expected empty voice to be rejected")
	}
	if _, ok := track.SetText(5, "x"); ok {
		t.Error("expected out of range index to be rejected")
	}
}
