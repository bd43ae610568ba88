package medicine

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("medicine not found")

// ErrDuplicateBatch is returned when a create collides with an existing
// batch number.
var ErrDuplicateBatch = errors.New("batch number already exists")

// Repository persists medicine batch records. Search applies location and
// free-text constraints only; status classification happens above the
// store because it is a function of the clock.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	CreateBatch(ctx context.Context, records []*Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByBatchNumber(ctx context.Context, batchNumber string) (*Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string) ([]*Record, error)
	ExistingBatchNumbers(ctx context.Context, batchNumbers []string) (map[string]bool, error)
	Districts(ctx context.Context) ([]string, error)
}
