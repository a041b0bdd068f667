package subtitle

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subdub/internal/timecode"
)

const (
	ASSResX = 1920
	ASSResY = 1080
)

// Advanced SubStation Alpha options
type ASSOptions struct {
	Title       string
	FontName    string
	FontSize    int
	IncludeOST  bool
	IncludeCues bool
}

func DefaultASSOptions() ASSOptions {
	return ASSOptions{
		Title:       "Translated Subtitles",
		FontName:    "Arial",
		FontSize:    64,
		IncludeOST:  true,
		IncludeCues: true,
	}
}

// ToSRT renders cues as SubRip. Blocks are separated by one blank line.
func ToSRT(cues []Cue) string {
	blocks := make([]string, 0, len(cues))
	for i, cue := range cues {
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s",
			i+1,
			timecode.SRT(cue.From),
			timecode.SRT(cue.To),
			cue.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// ToVTT renders cues as WebVTT; same layout as SRT with '.' separators.
func ToVTT(cues []Cue) string {
	blocks := make([]string, 0, len(cues))
	for i, cue := range cues {
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s",
			i+1,
			timecode.VTT(cue.From),
			timecode.VTT(cue.To),
			cue.Text))
	}
	return "WEBVTT\n\n" + strings.Join(blocks, "\n\n")
}

// ToASS renders the header, then OST dialogues (layer 1), then cue dialogues.
func ToASS(cues []Cue, ost OSTTrack, opts ASSOptions) string {
	if opts.FontName == "" {
		opts.FontName = "Arial"
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 64
	}

	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("Title: %s\n", opts.Title))
	}
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", ASSResX))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n", ASSResY))
	sb.WriteString("WrapStyle: 0\n")
	sb.WriteString("ScaledBorderAndShadow: yes\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		opts.FontName, opts.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	if opts.IncludeOST {
		for _, item := range ost {
			sb.WriteString(fmt.Sprintf("Dialogue: 1,%s,%s,Default,,0,0,0,,%s%s\n",
				timecode.ASS(item.From),
				timecode.ASS(item.To),
				ostOverrides(item.Attr),
				escapeOSTText(item.Text)))
		}
	}

	if opts.IncludeCues {
		for _, cue := range cues {
			sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
				timecode.ASS(cue.From),
				timecode.ASS(cue.To),
				escapeASSText(cue.Text)))
		}
	}

	return sb.String()
}

// override block: position, optional size, optional colour set
func ostOverrides(attr OSTAttr) string {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(fmt.Sprintf("\\pos(%d,%d)",
		int(math.Round(attr.Position.XPercent*ASSResX)),
		int(math.Round(attr.Position.YPercent*ASSResY))))

	if size, ok := ostFontSizes[strings.ToLower(attr.Size)]; ok {
		sb.WriteString(fmt.Sprintf("\\fs%d", size))
	}

	if attr.Color != "" || attr.Opacity != nil {
		colors, ok := ostColors[strings.ToLower(attr.Color)]
		if !ok {
			colors = ostColors["white"]
		}
		opacity := 1.0
		if attr.Opacity != nil {
			opacity = *attr.Opacity
		}
		alpha := assAlpha(opacity)
		sb.WriteString(fmt.Sprintf("\\1c%s\\1a%s", colors.primary, alpha))
		sb.WriteString(fmt.Sprintf("\\3c%s\\3a%s", colors.border, alpha))
		sb.WriteString(fmt.Sprintf("\\4c%s\\4a%s", colors.border, alpha))
	}

	sb.WriteString("}")
	return sb.String()
}

var ostFontSizes = map[string]int{
	"small":  48,
	"medium": 64,
	"large":  80,
	"xlarge": 96,
}

type ostColorSet struct {
	primary string
	border  string
}

// ASS override colours are &HBBGGRR&
var ostColors = map[string]ostColorSet{
	"white":  {primary: "&HFFFFFF&", border: "&H000000&"},
	"black":  {primary: "&H000000&", border: "&HFFFFFF&"},
	"red":    {primary: "&H0000FF&", border: "&H000000&"},
	"yellow": {primary: "&H00FFFF&", border: "&H000000&"},
	"green":  {primary: "&H00FF00&", border: "&H000000&"},
	"blue":   {primary: "&HFF0000&", border: "&HFFFFFF&"},
	"orange": {primary: "&H00A5FF&", border: "&H000000&"},
	"purple": {primary: "&H800080&", border: "&HFFFFFF&"},
	"gray":   {primary: "&H808080&", border: "&H000000&"},
}

// ASS alpha is inverted: 00 opaque, FF transparent
func assAlpha(opacity float64) string {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return fmt.Sprintf("&H%02X&", int(math.Round((1-opacity)*255)))
}

func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\\N")
	return text
}

// hard spaces stop ASS from collapsing the author's spacing
func escapeOSTText(text string) string {
	text = escapeASSText(text)
	return strings.ReplaceAll(text, " ", "\\h")
}

// Render dispatches on format. ASS includes OST when opts say so.
func Render(format Format, cues []Cue, ost OSTTrack, opts ASSOptions) (string, error) {
	switch format {
	case FormatSRT:
		return ToSRT(cues), nil
	case FormatVTT:
		return ToVTT(cues), nil
	case FormatASS:
		return ToASS(cues, ost, opts), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile writes rendered content, creating parent directories.
func WriteFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
