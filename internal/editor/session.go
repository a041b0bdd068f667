package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mgpai22/subdub/internal/document"
	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/logging"
	"github.com/mgpai22/subdub/internal/subtitle"
)

// Session owns the tracks of one open document. Every mutation replaces the
// affected track with a new snapshot and marks the session dirty; Save
// clears the flag. A Session is driven by one caller at a time.
type Session struct {
	id      uuid.UUID
	title   string
	savedAt time.Time

	src     subtitle.Track
	srcOST  subtitle.OSTTrack
	dst     subtitle.Track
	ost     subtitle.OSTTrack
	dubbing dubbing.Track

	dirty  bool
	voice  string
	store  document.Store
	engine *dubbing.Engine
	logger *logging.Logger
}

type Options struct {
	Store  document.Store
	Engine *dubbing.Engine
	Logger *logging.Logger
	// Voice is given to segments built by ResetDubbing.
	Voice string
}

// Create stores a new document whose source is src and whose destination
// is empty, and opens it.
func Create(ctx context.Context, title string, src subtitle.Track, opts Options) (*Session, error) {
	srcJSON, err := document.Encode(document.NewPayload(src, nil, nil))
	if err != nil {
		return nil, err
	}
	dst := subtitle.Track{VideoURL: src.VideoURL}
	dstJSON, err := document.Encode(document.NewPayload(dst, nil, nil))
	if err != nil {
		return nil, err
	}

	rec, err := opts.Store.Create(ctx, title, srcJSON, dstJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return fromRecord(rec, opts)
}

// Open loads and validates a stored document.
func Open(ctx context.Context, id uuid.UUID, opts Options) (*Session, error) {
	rec, err := opts.Store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec, opts)
}

func fromRecord(rec document.Record, opts Options) (*Session, error) {
	src, err := document.Decode([]byte(rec.SrcJSON))
	if err != nil {
		return nil, fmt.Errorf("source payload: %w", err)
	}
	dst, err := document.Decode([]byte(rec.DstJSON))
	if err != nil {
		return nil, fmt.Errorf("destination payload: %w", err)
	}

	s := &Session{
		id:      rec.ID,
		title:   rec.Title,
		savedAt: rec.SavedAt,
		src:     src.Track(),
		srcOST:  src.OST,
		dst:     dst.Track(),
		ost:     dst.OST,
		dubbing: dst.Dubbing,
		voice:   opts.Voice,
		store:   opts.Store,
		engine:  opts.Engine,
		logger:  logging.OrNop(opts.Logger),
	}
	if s.dst.VideoURL == "" {
		s.dst.VideoURL = s.src.VideoURL
	}

	s.logger.Debugw("Opened document",
		"id", s.id,
		"title", s.title,
		"cues", s.src.Len(),
		"translated", s.src.Len()-len(s.dst.Untranslated(s.src)),
		"ost", len(s.ost),
		"segments", len(s.dubbing),
	)
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }
func (s *Session) Title() string { return s.title }
func (s *Session) SavedAt() time.Time { return s.savedAt }
func (s *Session) Dirty() bool { return s.dirty }
func (s *Session) Src() subtitle.Track { return s.src }
func (s *Session) Dst() subtitle.Track { return s.dst }
func (s *Session) OST() subtitle.OSTTrack { return s.ost }
func (s *Session) Dubbing() dubbing.Track { return s.dubbing }
func (s *Session) Engine() *dubbing.Engine { return s.engine }

// Save writes both payloads and clears the dirty flag.
func (s *Session) Save(ctx context.Context) error {
	srcJSON, err := document.Encode(document.NewPayload(s.src, s.srcOST, nil))
	if err != nil {
		return err
	}
	dstJSON, err := document.Encode(document.NewPayload(s.dst, s.ost, s.dubbing))
	if err != nil {
		return err
	}

	savedAt, err := s.store.Save(ctx, s.id, srcJSON, dstJSON)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	s.savedAt = savedAt
	s.dirty = false
	s.logger.Infow("Document saved", "id", s.id, "saved_at", savedAt)
	return nil
}

// apply installs a mutation result when it took effect.
func apply[T any](s *Session, target *T, next T, ok bool) bool {
	if !ok {
		return false
	}
	*target = next
	s.dirty = true
	return true
}

// aligned destination, the shape per-index consumers expect
func (s *Session) alignedDst() subtitle.Track {
	return s.dst.Aligned(s.src)
}
