package medicine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmawatch/pharmawatch/pkg/pagination"
)

// Auditor records administrative actions. Audit failures never fail the
// action itself.
type Auditor interface {
	Record(ctx context.Context, user, action, medicineName, details string)
}

// NoopAuditor discards all entries. Used in tests.
type NoopAuditor struct{}

func (NoopAuditor) Record(context.Context, string, string, string, string) {}

// batchLocks serializes writes per batch number so overlapping edits to the
// same batch cannot interleave. Locks are created on first use and never
// reclaimed; the batch-number space is small.
type batchLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newBatchLocks() *batchLocks {
	return &batchLocks{locks: make(map[string]*sync.Mutex)}
}

func (b *batchLocks) lock(batchNumber string) func() {
	b.mu.Lock()
	l, ok := b.locks[batchNumber]
	if !ok {
		l = &sync.Mutex{}
		b.locks[batchNumber] = l
	}
	b.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Service owns inventory mutations and queries.
type Service struct {
	repo    Repository
	auditor Auditor
	locks   *batchLocks
	now     func() time.Time
	changed func()
}

func NewService(repo Repository, auditor Auditor) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
		locks:   newBatchLocks(),
		now:     time.Now,
		changed: func() {},
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// OnChange registers a hook invoked after every successful mutation. The
// alert scheduler uses it to debounce recomputation.
func (s *Service) OnChange(fn func()) { s.changed = fn }

func validateRecord(r *Record) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.BatchNumber == "" {
		return fmt.Errorf("batch_number is required")
	}
	if r.Expiry.IsZero() {
		return fmt.Errorf("expiry is required")
	}
	if r.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	if r.ReorderLevel < 0 {
		return fmt.Errorf("reorder_level must not be negative")
	}
	if r.Consumed < 0 {
		return fmt.Errorf("consumed must not be negative")
	}
	for field, value := range map[string]string{
		"country":  r.Country,
		"district": r.District,
		"chiefdom": r.Chiefdom,
		"facility": r.Facility,
	} {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, r *Record, actor string) error {
	if err := validateRecord(r); err != nil {
		return err
	}

	unlock := s.locks.lock(r.BatchNumber)
	defer unlock()

	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	s.auditor.Record(ctx, actor, "ADD", r.Name, fmt.Sprintf("batch %s, stock %d", r.BatchNumber, r.Stock))
	s.changed()
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

// Update rewrites a record's mutable fields. The batch number identifies
// the batch and cannot change; an update naming a different batch number
// than the stored one is rejected.
func (s *Service) Update(ctx context.Context, r *Record, actor string) error {
	if err := validateRecord(r); err != nil {
		return err
	}

	unlock := s.locks.lock(r.BatchNumber)
	defer unlock()

	current, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return err
	}
	if current.BatchNumber != r.BatchNumber {
		return fmt.Errorf("batch_number is immutable")
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}
	s.auditor.Record(ctx, actor, "UPDATE", r.Name, fmt.Sprintf("batch %s, stock %d", r.BatchNumber, r.Stock))
	s.changed()
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(current.BatchNumber)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditor.Record(ctx, actor, "DELETE", current.Name, fmt.Sprintf("batch %s", current.BatchNumber))
	s.changed()
	return nil
}

// RecordWithStatus is a record plus its classification at query time.
type RecordWithStatus struct {
	*Record
	Status Status      `json:"status"`
	Flags  StatusFlags `json:"status_flags"`
}

// List applies the filter and slices out one page. Location and free-text
// constraints are pushed to the store; the status constraint is evaluated
// here because it depends on the clock.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*RecordWithStatus, pagination.Page, error) {
	params := map[string]string{
		"search":   f.Search,
		"country":  f.Country,
		"district": f.District,
		"chiefdom": f.Chiefdom,
		"facility": f.Facility,
	}
	records, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	now := s.now()
	if f.Status != "" {
		statusOnly := Filter{Status: f.Status}
		records = statusOnly.Apply(records, now)
	}

	page, window := pagination.Slice(records, p.PageSize, p.Page)

	out := make([]*RecordWithStatus, 0, len(page))
	for _, r := range page {
		flags := Classify(r, now, DefaultExpiryThreshold)
		out = append(out, &RecordWithStatus{Record: r, Status: flags.Primary(), Flags: flags})
	}
	return out, window, nil
}

// All returns every record matching the filter, unpaginated, for exports
// and the alert scheduler.
func (s *Service) All(ctx context.Context, f Filter) ([]*Record, error) {
	params := map[string]string{
		"search":   f.Search,
		"country":  f.Country,
		"district": f.District,
		"chiefdom": f.Chiefdom,
		"facility": f.Facility,
	}
	records, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if f.Status != "" {
		statusOnly := Filter{Status: f.Status}
		records = statusOnly.Apply(records, s.now())
	}
	return records, nil
}

// Import persists a validated batch upload. Rows whose batch number already
// exists in the store are dropped silently; the rest are inserted in one
// transaction.
func (s *Service) Import(ctx context.Context, rows []*ImportRow, actor string) (ImportResult, error) {
	result := ImportResult{Total: len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	batchNumbers := make([]string, 0, len(rows))
	for _, row := range rows {
		batchNumbers = append(batchNumbers, row.BatchNumber)
	}
	existing, err := s.repo.ExistingBatchNumbers(ctx, batchNumbers)
	if err != nil {
		return result, err
	}

	var fresh []*Record
	for _, row := range rows {
		if existing[row.BatchNumber] {
			result.Duplicates++
			continue
		}
		fresh = append(fresh, &Record{
			Name:         row.Name,
			BatchNumber:  row.BatchNumber,
			Expiry:       row.Expiry,
			Stock:        row.Stock,
			ReorderLevel: row.ReorderLevel,
			Country:      row.Country,
			District:     row.District,
			Chiefdom:     row.Chiefdom,
			Facility:     row.Facility,
		})
	}

	if len(fresh) > 0 {
		if err := s.repo.CreateBatch(ctx, fresh); err != nil {
			return result, err
		}
	}
	result.Imported = len(fresh)

	s.auditor.Record(ctx, actor, "BATCH_UPLOAD", "batch import",
		fmt.Sprintf("%d imported, %d duplicates skipped", result.Imported, result.Duplicates))
	s.changed()
	return result, nil
}

// Summary classifies the whole inventory into status buckets.
func (s *Service) Summary(ctx context.Context, f Filter) (Summary, error) {
	records, err := s.All(ctx, f)
	if err != nil {
		return Summary{}, err
	}
	return StockSummary(records, s.now(), DefaultExpiryThreshold), nil
}
