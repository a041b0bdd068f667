package subtitle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func floatPtr(v float64) *float64 { return &v }

func sampleOST() OSTTrack {
	return OSTTrack{
		{From: 0, To: 5000, Text: "Title", Attr: OSTAttr{
			Position: Position{XPercent: 0.5, YPercent: 0.1},
			Size:     "large",
			Color:    "yellow",
			Opacity:  floatPtr(0.8),
		}},
		{From: 2000, To: 3000, Text: "Note", Attr: OSTAttr{
			Position: Position{XPercent: 0.2, YPercent: 0.8},
		}},
		{From: 6000, To: 7000, Text: "Later"},
	}
}

func TestActiveItems(t *testing.T) {
	track := sampleOST()

	tests := []struct {
		pos  int64
		want []int
	}{
		{1000, []int{0}},
		{2500, []int{0, 1}},
		{5500, nil},
		{6000, []int{2}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, track.ActiveItems(tt.pos)); diff != "" {
			t.Errorf("ActiveItems(%d) mismatch (-want +got):\n%s", tt.pos, diff)
		}
	}
}

func TestDuplicateInsertsDeepCopyBefore(t *testing.T) {
	track := sampleOST()

	next, ok := track.Duplicate(0)
	if !ok {
		t.Fatal("Duplicate reported no-op")
	}
	if len(next) != 4 {
		t.Fatalf("len = %d, want 4", len(next))
	}
	if diff := cmp.Diff(track[0], next[0]); diff != "" {
		t.Errorf("copy differs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(track[0], next[1]); diff != "" {
		t.Errorf("original not shifted down (-want +got):\n%s", diff)
	}

	*next[0].Attr.Opacity = 0.1
	if *next[1].Attr.Opacity != 0.8 || *track[0].Attr.Opacity != 0.8 {
		t.Error("opacity shared between copies")
	}
}

func TestRemoveAndSetPosition(t *testing.T) {
	track := sampleOST()

	removed, ok := track.Remove(1)
	if !ok || len(removed) != 2 || removed[1].Text != "Later" {
		t.Fatalf("Remove(1) = %+v, %v", removed, ok)
	}
	if len(track) != 3 {
		t.Error("original snapshot changed")
	}

	moved, ok := track.SetPosition(2, Position{XPercent: 0.75, YPercent: 0.25})
	if !ok {
		t.Fatal("SetPosition reported no-op")
	}
	if moved[2].Attr.Position.XPercent != 0.75 {
		t.Errorf("position not set: %+v", moved[2].Attr.Position)
	}
	if track[2].Attr.Position.XPercent != 0 {
		t.Error("original snapshot changed")
	}

	for _, idx := range []int{-1, 3} {
		if _, ok := track.Remove(idx); ok {
			t.Errorf("Remove(%d) should be a no-op", idx)
		}
		if _, ok := track.Duplicate(idx); ok {
			t.Errorf("Duplicate(%d) should be a no-op", idx)
		}
	}
}

func TestWarnings(t *testing.T) {
	track := OSTTrack{
		{Text: "single\nbreak"},
		{Text: "stacked\n\nbreaks"},
		{Text: "windows\r\n\r\nbreaks"},
	}
	warnings := track.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if warnings[0].Index != 1 || warnings[1].Index != 2 {
		t.Errorf("unexpected warning indexes: %+v", warnings)
	}
}
