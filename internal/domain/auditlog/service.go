package auditlog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Service stamps, validates and stores audit entries.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Record stamps and appends one entry. Malformed entries are dropped with a
// warning instead of failing the action that produced them, and storage
// failures are swallowed the same way: the trail is best effort, the
// inventory operation must not roll back because logging did.
func (s *Service) Record(ctx context.Context, user, action, medicineName, details string) {
	e := &Entry{
		Timestamp:    s.now(),
		User:         user,
		Action:       action,
		MedicineName: medicineName,
		Details:      details,
	}
	s.record(ctx, e)
}

// RecordEntry appends a caller-built entry, for replaying events that carry
// their own timestamp. Returns whether the entry was accepted.
func (s *Service) RecordEntry(ctx context.Context, e *Entry) bool {
	return s.record(ctx, e)
}

func (s *Service) record(ctx context.Context, e *Entry) bool {
	if !e.Valid() {
		s.log.Warn().
			Str("user", e.User).
			Str("action", e.Action).
			Str("medicine", e.MedicineName).
			Msg("dropping invalid audit entry")
		return false
	}
	if err := s.repo.Append(ctx, e); err != nil {
		s.log.Error().Err(err).Str("action", e.Action).Msg("failed to append audit entry")
		return false
	}
	return true
}

// List returns entries newest first. Date bounds are whole calendar days:
// the from bound starts at midnight and the to bound extends through the
// last instant of that day, so a single-day range covers the full day.
func (s *Service) List(ctx context.Context, user, action string, from, to time.Time) ([]*Entry, error) {
	q := Query{User: user, Action: action}
	if !from.IsZero() {
		q.From = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	}
	if !to.IsZero() {
		day := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
		q.To = day.Add(24*time.Hour - time.Millisecond)
	}
	return s.repo.List(ctx, q)
}
