package subtitle

import (
	"fmt"
	"strings"
)

// fractions of frame width/height, intended range [0,1]
type Position struct {
	XPercent float64 `json:"x_percent"`
	YPercent float64 `json:"y_percent"`
}

type OSTAttr struct {
	Position Position `json:"position"`
	Size     string   `json:"size,omitempty"`
	Color    string   `json:"color,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
}

// on-screen text overlay; independent of subtitle indexes
type OSTItem struct {
	From int64   `json:"from"`
	To   int64   `json:"to"`
	Text string  `json:"text"`
	Attr OSTAttr `json:"attr"`
}

func (o OSTItem) Contains(pos int64) bool {
	return pos >= o.From && pos <= o.To
}

func (o OSTItem) clone() OSTItem {
	c := o
	if o.Attr.Opacity != nil {
		v := *o.Attr.Opacity
		c.Attr.Opacity = &v
	}
	return c
}

// OSTTrack items may overlap; any number can be active at once.
type OSTTrack []OSTItem

func (t OSTTrack) Clone() OSTTrack {
	if t == nil {
		return nil
	}
	out := make(OSTTrack, len(t))
	for i, item := range t {
		out[i] = item.clone()
	}
	return out
}

// ActiveItems returns the indexes of every item containing positionMs, in
// track order.
func (t OSTTrack) ActiveItems(positionMs int64) []int {
	var out []int
	for i, item := range t {
		if item.Contains(positionMs) {
			out = append(out, i)
		}
	}
	return out
}

// Duplicate inserts a deep copy of the item at index immediately before it;
// the original moves to index+1.
func (t OSTTrack) Duplicate(index int) (OSTTrack, bool) {
	if index < 0 || index >= len(t) {
		return t, false
	}
	out := make(OSTTrack, 0, len(t)+1)
	out = append(out, t[:index].Clone()...)
	out = append(out, t[index].clone())
	out = append(out, t[index:].Clone()...)
	return out, true
}

func (t OSTTrack) Remove(index int) (OSTTrack, bool) {
	if index < 0 || index >= len(t) {
		return t, false
	}
	out := make(OSTTrack, 0, len(t)-1)
	out = append(out, t[:index].Clone()...)
	out = append(out, t[index+1:].Clone()...)
	return out, true
}

// SetPosition stores a drag-derived position. Values are not clamped.
func (t OSTTrack) SetPosition(index int, pos Position) (OSTTrack, bool) {
	if index < 0 || index >= len(t) {
		return t, false
	}
	out := t.Clone()
	out[index].Attr.Position = pos
	return out, true
}

func (t OSTTrack) SetText(index int, text string) (OSTTrack, bool) {
	if index < 0 || index >= len(t) {
		return t, false
	}
	out := t.Clone()
	out[index].Text = text
	return out, true
}

// StyleWarning is advisory; the text is kept as is.
type StyleWarning struct {
	Index   int
	Message string
}

func (w StyleWarning) String() string {
	return fmt.Sprintf("ost item %d: %s", w.Index, w.Message)
}

// HasStackedLineBreaks reports two or more consecutive line breaks, which
// should be separate OST items instead.
func HasStackedLineBreaks(text string) bool {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Contains(text, "\n\n")
}

func (t OSTTrack) Warnings() []StyleWarning {
	var out []StyleWarning
	for i, item := range t {
		if HasStackedLineBreaks(item.Text) {
			out = append(out, StyleWarning{
				Index:   i,
				Message: "consecutive line breaks; use multiple OST items instead",
			})
		}
	}
	return out
}
