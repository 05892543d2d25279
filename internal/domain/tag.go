package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a classification label shared by every document that references it.
// Identity is determined by Name, which is always a normalized slug.
// Count is the number of documents referencing the tag; it starts at 1 when
// the tag is first attached and is never decremented by the archive engine.
type Tag struct {
	ID        uuid.UUID
	Name      string
	Count     int
	CreatedAt time.Time
}
