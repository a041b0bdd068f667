package audio

import (
	"testing"
	"time"
)

func ms(v int64) time.Duration { return time.Duration(v) * time.Millisecond }

func TestMergeTimelineEmpty(t *testing.T) {
	tl := MergeTimeline(nil)
	if len(tl.PCM) != 0 || len(tl.Steps) != 0 {
		t.Errorf("expected empty timeline, got %d bytes", len(tl.PCM))
	}
}

func TestMergeTimelineExactFit(t *testing.T) {
	clips := []Clip{
		{From: ms(500), To: ms(1500), PCM: pcmOf(ms(1000))},
		{From: ms(2000), To: ms(3000), PCM: pcmOf(ms(1000))},
		{From: ms(3000), To: ms(3500), PCM: pcmOf(ms(500))},
	}

	tl := MergeTimeline(clips)

	if got := tl.Duration(); got != ms(3500) {
		t.Errorf("timeline duration = %v, want 3.5s", got)
	}
	if got := tl.SilenceDuration(); got != ms(1000) {
		t.Errorf("silence = %v, want 1s", got)
	}
	wantInserted := []time.Duration{ms(500), ms(500), 0}
	for i, step := range tl.Steps {
		if step.Inserted != wantInserted[i] {
			t.Errorf("step %d inserted %v, want %v", i, step.Inserted, wantInserted[i])
		}
	}
	// leading silence is zeros, first clip audio follows
	if tl.PCM[0] != 0 || tl.PCM[16000] != 0x7f {
		t.Error("unexpected byte layout")
	}
}

func TestMergeTimelineCompensatesShortAudio(t *testing.T) {
	clips := []Clip{
		{From: 0, To: ms(1000), PCM: pcmOf(ms(1000))},
		{From: ms(1200), To: ms(2200), PCM: pcmOf(ms(600))},
		{From: ms(2200), To: ms(3000), PCM: pcmOf(ms(800))},
	}

	tl := MergeTimeline(clips)

	step := tl.Steps[1]
	if step.Gap != ms(200) || step.Compensation != ms(400) || step.Inserted != ms(600) {
		t.Errorf("step 1 = %+v", step)
	}
	if got := tl.Duration(); got != ms(3000) {
		t.Errorf("timeline duration = %v, want 3s", got)
	}
}

func TestMergeTimelineClampsNegative(t *testing.T) {
	clips := []Clip{
		{From: 0, To: ms(1000), PCM: pcmOf(ms(1000))},
		{From: ms(1100), To: ms(2000), PCM: pcmOf(ms(1300))},
	}

	tl := MergeTimeline(clips)

	step := tl.Steps[1]
	if step.Compensation != -ms(400) {
		t.Errorf("compensation = %v", step.Compensation)
	}
	if step.Inserted != 0 || step.Bytes != 0 {
		t.Errorf("negative silence inserted: %+v", step)
	}
	if got := tl.Duration(); got != ms(2300) {
		t.Errorf("timeline duration = %v", got)
	}
}

func TestGapDurationIgnoresOverlap(t *testing.T) {
	clips := []Clip{
		{From: 0, To: ms(1000), PCM: pcmOf(ms(1000))},
		{From: ms(900), To: ms(2000), PCM: pcmOf(ms(1100))},
		{From: ms(2500), To: ms(3000), PCM: pcmOf(ms(500))},
	}

	tl := MergeTimeline(clips)

	if tl.Steps[1].Gap != -ms(100) {
		t.Errorf("raw gap = %v, want -100ms", tl.Steps[1].Gap)
	}
	if got := tl.GapDuration(); got != ms(500) {
		t.Errorf("gap duration = %v, want 500ms", got)
	}
	if got := tl.SilenceDuration(); got != tl.GapDuration() {
		t.Errorf("silence = %v, gaps = %v", got, tl.GapDuration())
	}
}

func TestMergeTimelineMissingAudio(t *testing.T) {
	clips := []Clip{
		{From: 0, To: ms(1000), PCM: pcmOf(ms(1000))},
		{From: ms(1000), To: ms(2000)},
		{From: ms(2500), To: ms(3000), PCM: pcmOf(ms(500))},
	}

	tl := MergeTimeline(clips)

	if tl.Steps[1].Inserted != ms(1000) {
		t.Errorf("unrendered slot should be silent, got %+v", tl.Steps[1])
	}
	if got := tl.Duration(); got != ms(3000) {
		t.Errorf("timeline duration = %v, want 3s", got)
	}
}

func TestMergeTimelineKeepsSampleAlignment(t *testing.T) {
	odd := append(pcmOf(ms(10)), 0x01)
	clips := []Clip{
		{From: 0, To: ms(10), PCM: odd},
		{From: ms(10), To: ms(20), PCM: pcmOf(ms(10))},
	}
	tl := MergeTimeline(clips)
	if len(tl.PCM)%BytesPerSample != 0 {
		t.Errorf("timeline length %d not sample aligned", len(tl.PCM))
	}
}
