package auditlog

import (
	"context"
	"time"
)

// Query narrows a listing. Zero time bounds mean unbounded on that side.
type Query struct {
	User   string
	Action string
	From   time.Time
	To     time.Time
}

// Repository is append-only: entries go in and are read back in reverse
// chronological order, never modified. Entries sharing a timestamp come
// back in reverse insertion order.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context, q Query) ([]*Entry, error)
}
