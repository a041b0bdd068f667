package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("document not found")

// Record is a stored document: opaque source and destination payloads plus
// save metadata.
type Record struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	SrcJSON string    `json:"src_json"`
	DstJSON string    `json:"dst_json"`
	SavedAt time.Time `json:"saved_at"`
}

// Store persists documents.
type Store interface {
	Create(ctx context.Context, title, srcJSON, dstJSON string) (Record, error)
	Load(ctx context.Context, id uuid.UUID) (Record, error)
	// Save replaces both payloads and returns the new save time.
	Save(ctx context.Context, id uuid.UUID, srcJSON, dstJSON string) (time.Time, error)
	List(ctx context.Context) ([]Record, error)
	Close() error
}

func newRecord(title, srcJSON, dstJSON string, now time.Time) Record {
	return Record{
		ID:      uuid.New(),
		Title:   title,
		SrcJSON: srcJSON,
		DstJSON: dstJSON,
		SavedAt: now.UTC(),
	}
}
