package timecode

import (
	"fmt"
	"strings"
)

const DefaultFractionalDigits = 3

// Format renders a millisecond offset as HH:MM:SS<sep>fff, or MM:SS<sep>fff
// when withHours is false. The short form wraps at 60 minutes, so callers
// must pass withHours for content longer than an hour. ms must be >= 0.
func Format(
	ms int64,
	withHours bool,
	decimalSeparator string,
	fractionalDigits int,
) string {
	if fractionalDigits <= 0 {
		fractionalDigits = DefaultFractionalDigits
	}

	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1000) % 60
	fraction := scaleFraction(ms%1000, fractionalDigits)

	var sb strings.Builder
	if withHours {
		sb.WriteString(fmt.Sprintf("%02d:", hours))
	}
	sb.WriteString(fmt.Sprintf("%02d:%02d", minutes, seconds))
	sb.WriteString(decimalSeparator)
	sb.WriteString(fmt.Sprintf("%0*d", fractionalDigits, fraction))
	return sb.String()
}

// scales a 0-999 millisecond remainder to the requested digit count,
// truncating (2 digits gives centiseconds)
func scaleFraction(millis int64, digits int) int64 {
	switch {
	case digits == 3:
		return millis
	case digits < 3:
		for i := digits; i < 3; i++ {
			millis /= 10
		}
		return millis
	default:
		for i := 3; i < digits; i++ {
			millis *= 10
		}
		return millis
	}
}

// SRT: 00:00:01,500
func SRT(ms int64) string {
	return Format(ms, true, ",", 3)
}

// VTT: 00:00:01.500
func VTT(ms int64) string {
	return Format(ms, true, ".", 3)
}

// ASS: 0:00:01.50 (unpadded hours, centiseconds)
func ASS(ms int64) string {
	return fmt.Sprintf("%d:%s", ms/3_600_000, Format(ms, false, ".", 2))
}
