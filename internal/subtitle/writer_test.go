package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func helloWorld() []Cue {
	return []Cue{
		{From: 0, To: 1500, Text: "Hello"},
		{From: 1500, To: 3000, Text: "World"},
	}
}

func TestToSRT(t *testing.T) {
	want := `1
00:00:00,000 --> 00:00:01,500
Hello

2
00:00:01,500 --> 00:00:03,000
World`
	if got := ToSRT(helloWorld()); got != want {
		t.Errorf("ToSRT mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestToVTT(t *testing.T) {
	want := `WEBVTT

1
00:00:00.000 --> 00:00:01.500
Hello

2
00:00:01.500 --> 00:00:03.000
World`
	if got := ToVTT(helloWorld()); got != want {
		t.Errorf("ToVTT mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestToSRTEmpty(t *testing.T) {
	if got := ToSRT(nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestToASS(t *testing.T) {
	ost := OSTTrack{{
		From: 500,
		To:   2500,
		Text: "Key  point\nhere",
		Attr: OSTAttr{
			Position: Position{XPercent: 0.5, YPercent: 0.25},
			Size:     "large",
			Color:    "yellow",
			Opacity:  floatPtr(0.5),
		},
	}}

	out := ToASS(helloWorld(), ost, DefaultASSOptions())

	for _, want := range []string{
		"PlayResX: 1920\n",
		"PlayResY: 1080\n",
		"Style: Default,Arial,64,",
		`Dialogue: 1,0:00:00.50,0:00:02.50,Default,,0,0,0,,{\pos(960,270)\fs80\1c&H00FFFF&\1a&H80&\3c&H000000&\3a&H80&\4c&H000000&\4a&H80&}Key\h\hpoint\Nhere`,
		"Dialogue: 0,0:00:00.00,0:00:01.50,Default,,0,0,0,,Hello\n",
		"Dialogue: 0,0:00:01.50,0:00:03.00,Default,,0,0,0,,World\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ASS output missing %q\n%s", want, out)
		}
	}

	if strings.Index(out, "Dialogue: 1") > strings.Index(out, "Dialogue: 0") {
		t.Error("OST dialogues should precede cue dialogues")
	}
}

func TestToASSPositionOnly(t *testing.T) {
	ost := OSTTrack{{From: 0, To: 1000, Text: "x", Attr: OSTAttr{
		Position: Position{XPercent: 0.1, YPercent: 0.9},
	}}}
	opts := DefaultASSOptions()
	opts.IncludeCues = false

	out := ToASS(helloWorld(), ost, opts)
	if !strings.Contains(out, `,,{\pos(192,972)}x`) {
		t.Errorf("unexpected OST line:\n%s", out)
	}
	if strings.Contains(out, "Dialogue: 0,") {
		t.Error("cue dialogues emitted although excluded")
	}
}

func TestToASSWithoutOST(t *testing.T) {
	opts := DefaultASSOptions()
	opts.IncludeOST = false
	out := ToASS(helloWorld(), sampleOST(), opts)
	if strings.Contains(out, `\pos`) {
		t.Error("OST dialogue emitted although excluded")
	}
}

func TestRenderAndWriteFile(t *testing.T) {
	if _, err := Render(Format("txt"), nil, nil, ASSOptions{}); err == nil {
		t.Error("expected error for unsupported format")
	}

	content, err := Render(FormatVTT, helloWorld(), nil, ASSOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "out.vtt")
	if err := WriteFile(path, content); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != content {
		t.Error("file content differs from rendered content")
	}
}

func TestFormatExtensions(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.srt", FormatSRT},
		{"a.VTT", FormatVTT},
		{"a.ssa", FormatASS},
		{"a.unknown", FormatSRT},
	}
	for _, tt := range tests {
		if got := GetFormatFromExtension(tt.path); got != tt.want {
			t.Errorf("GetFormatFromExtension(%q) = %s", tt.path, got)
		}
	}
	if GetExtensionForFormat(FormatASS) != ".ass" {
		t.Error("wrong extension for ASS")
	}
}
