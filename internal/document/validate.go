package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/subtitle"
)

type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// ValidationError lists every problem found in a stored payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid document: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(path, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// wire shapes: pointers tell a missing field from a zero one
type rawPayload struct {
	VideoURL *string      `json:"videoUrl"`
	Subtitle []rawCue     `json:"subtitle"`
	OST      []rawOST     `json:"ost"`
	Dubbing  []rawSegment `json:"dubbing"`
}

type rawCue struct {
	From *float64 `json:"from"`
	To   *float64 `json:"to"`
	Text *string  `json:"text"`
}

type rawOST struct {
	From *float64 `json:"from"`
	To   *float64 `json:"to"`
	Text *string  `json:"text"`
	Attr *rawAttr `json:"attr"`
}

type rawAttr struct {
	Position *subtitle.Position `json:"position"`
	Size     string             `json:"size"`
	Color    string             `json:"color"`
	Opacity  *float64           `json:"opacity"`
}

type rawSegment struct {
	From       *float64   `json:"from"`
	To         *float64   `json:"to"`
	Text       *string    `json:"text"`
	SubIndexes []float64  `json:"subIndexes"`
	Params     *rawParams `json:"params"`
}

type rawParams struct {
	Voice string   `json:"voice"`
	Rate  *float64 `json:"rate"`
}

// Decode validates a stored payload and converts it into the typed model.
// Empty input decodes to an empty payload. Out-of-order or overlapping
// cues are accepted; missing fields, wrong types, negative offsets, ranges
// ending before they start and empty subIndexes are not.
func Decode(data []byte) (Payload, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return Payload{Subtitle: []subtitle.Cue{}}, nil
	}

	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		verr := &ValidationError{}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			verr.add(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		} else {
			verr.add("$", "%v", err)
		}
		return Payload{}, verr
	}

	verr := &ValidationError{}
	p := Payload{Subtitle: make([]subtitle.Cue, 0, len(raw.Subtitle))}
	if raw.VideoURL != nil {
		p.VideoURL = *raw.VideoURL
	}

	for i, rc := range raw.Subtitle {
		path := fmt.Sprintf("subtitle[%d]", i)
		from, to := checkRange(verr, path, rc.From, rc.To)
		p.Subtitle = append(p.Subtitle, subtitle.Cue{
			From: from,
			To:   to,
			Text: requireText(verr, path, rc.Text),
		})
	}

	for i, ro := range raw.OST {
		path := fmt.Sprintf("ost[%d]", i)
		from, to := checkRange(verr, path, ro.From, ro.To)
		item := subtitle.OSTItem{From: from, To: to, Text: requireText(verr, path, ro.Text)}
		if ro.Attr == nil || ro.Attr.Position == nil {
			verr.add(path+".attr.position", "is required")
		} else {
			item.Attr = subtitle.OSTAttr{
				Position: *ro.Attr.Position,
				Size:     ro.Attr.Size,
				Color:    ro.Attr.Color,
				Opacity:  ro.Attr.Opacity,
			}
		}
		p.OST = append(p.OST, item)
	}

	for i, rs := range raw.Dubbing {
		path := fmt.Sprintf("dubbing[%d]", i)
		from, to := checkRange(verr, path, rs.From, rs.To)
		seg := dubbing.Segment{
			From:   from,
			To:     to,
			Text:   requireText(verr, path, rs.Text),
			Params: dubbing.DefaultParams(),
		}
		if len(rs.SubIndexes) == 0 {
			verr.add(path+".subIndexes", "must not be empty")
		}
		for j, k := range rs.SubIndexes {
			if k < 0 || k != math.Trunc(k) {
				verr.add(fmt.Sprintf("%s.subIndexes[%d]", path, j), "must be a non-negative integer")
				continue
			}
			seg.SubIndexes = append(seg.SubIndexes, int(k))
		}
		if rs.Params != nil {
			if rs.Params.Voice != "" {
				seg.Params.Voice = rs.Params.Voice
			}
			if rs.Params.Rate != nil {
				seg.Params.Rate = *rs.Params.Rate
			}
		}
		p.Dubbing = append(p.Dubbing, seg)
	}

	if len(verr.Fields) > 0 {
		return Payload{}, verr
	}
	return p, nil
}

func requireText(verr *ValidationError, path string, text *string) string {
	if text == nil {
		verr.add(path+".text", "is required")
		return ""
	}
	return *text
}

// checkRange rounds both offsets to whole milliseconds.
func checkRange(verr *ValidationError, path string, from, to *float64) (int64, int64) {
	f := checkOffset(verr, path+".from", from)
	t := checkOffset(verr, path+".to", to)
	if from != nil && to != nil && t < f {
		verr.add(path, "ends before it starts (%d < %d)", t, f)
	}
	return f, t
}

func checkOffset(verr *ValidationError, path string, v *float64) int64 {
	if v == nil {
		verr.add(path, "is required")
		return 0
	}
	if *v < 0 {
		verr.add(path, "must not be negative")
		return 0
	}
	return int64(math.Round(*v))
}
