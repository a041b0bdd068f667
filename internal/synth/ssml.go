package synth

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// BreakTag is the pause marker editors insert into segment text.
const BreakTag = `<break time="100ms"/>`

var breakPattern = regexp.MustCompile(`<break\s+time="\d+(?:ms|s)"\s*/>`)

// RatePercent maps a signed fractional rate to an SSML prosody rate:
// 0 -> "100%", 0.15 -> "115%", -0.1 -> "90%".
func RatePercent(rate float64) string {
	pct := math.Round((1 + rate) * 100)
	if pct < 1 {
		pct = 1
	}
	return fmt.Sprintf("%d%%", int(pct))
}

// BuildSSML wraps text in a speak/voice/prosody envelope. Break markers
// already in the text are kept as markup; everything else is escaped.
func BuildSSML(text, voice string, rate float64) string {
	var sb strings.Builder
	sb.WriteString(`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="`)
	sb.WriteString(voiceLocale(voice))
	sb.WriteString(`">`)
	sb.WriteString(`<voice name="`)
	sb.WriteString(escape(voice))
	sb.WriteString(`">`)
	sb.WriteString(`<prosody rate="`)
	sb.WriteString(RatePercent(rate))
	sb.WriteString(`">`)
	sb.WriteString(escapeKeepingBreaks(text))
	sb.WriteString(`</prosody></voice></speak>`)
	return sb.String()
}

func escapeKeepingBreaks(text string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range breakPattern.FindAllStringIndex(text, -1) {
		sb.WriteString(escape(text[last:loc[0]]))
		sb.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(escape(text[last:]))
	return sb.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// "en-US-AvaNeural" -> "en-US"
func voiceLocale(voice string) string {
	parts := strings.Split(voice, "-")
	if len(parts) >= 2 && len(parts[0]) == 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}

// StripBreaks removes pause markers, leaving the spoken text.
func StripBreaks(text string) string {
	return breakPattern.ReplaceAllString(text, "")
}
