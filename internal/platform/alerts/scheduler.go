package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmawatch/pharmawatch/internal/domain/medicine"
)

// DefaultDebounce is the quiet period after an inventory change before the
// feed is recomputed. A burst of writes produces one recompute.
const DefaultDebounce = 300 * time.Millisecond

// Source provides the records to generate alerts from.
type Source interface {
	All(ctx context.Context, f medicine.Filter) ([]*medicine.Record, error)
}

// Scheduler owns the current alert feed. Inventory writers call Notify;
// the feed recomputes after the debounce window closes. Dismissals are kept
// by alert ID and survive recomputation.
type Scheduler struct {
	source   Source
	log      zerolog.Logger
	debounce time.Duration
	now      func() time.Time

	mu        sync.Mutex
	timer     *time.Timer
	alerts    []Alert
	dismissed map[string]bool
	announced map[string]bool
}

func NewScheduler(source Source, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		source:    source,
		log:       log,
		debounce:  DefaultDebounce,
		now:       time.Now,
		dismissed: make(map[string]bool),
		announced: make(map[string]bool),
	}
}

// SetDebounce overrides the quiet period. Tests only.
func (s *Scheduler) SetDebounce(d time.Duration) { s.debounce = d }

// SetClock overrides the scheduler clock. Tests only.
func (s *Scheduler) SetClock(now func() time.Time) { s.now = now }

// Notify schedules a recompute. Each call resets the pending timer, so only
// the last notification in a burst triggers work.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.Refresh)
}

// Refresh recomputes the feed immediately. Exposed for startup and tests;
// normal operation goes through Notify.
func (s *Scheduler) Refresh() {
	records, err := s.source.All(context.Background(), medicine.Filter{})
	if err != nil {
		s.log.Error().Err(err).Msg("alert refresh failed")
		return
	}
	generated := Generate(records, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = s.alerts[:0]
	for _, a := range generated {
		if s.dismissed[a.ID] {
			continue
		}
		s.alerts = append(s.alerts, a)
		if !s.announced[a.ID] {
			s.announced[a.ID] = true
			s.log.Info().
				Str("alert_id", a.ID).
				Str("severity", a.Severity).
				Msg(a.Message)
		}
	}
}

// Active returns the current feed, newest computation, dismissals excluded.
func (s *Scheduler) Active() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Dismissed returns the IDs of dismissed alerts.
func (s *Scheduler) Dismissed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.dismissed))
	for id := range s.dismissed {
		out = append(out, id)
	}
	return out
}

// Dismiss hides an alert by ID until restored.
func (s *Scheduler) Dismiss(id string) {
	s.mu.Lock()
	s.dismissed[id] = true
	kept := s.alerts[:0]
	for _, a := range s.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.alerts = kept
	s.mu.Unlock()
}

// Restore un-dismisses an alert and recomputes so it reappears if the
// condition still holds.
func (s *Scheduler) Restore(id string) {
	s.mu.Lock()
	delete(s.dismissed, id)
	s.mu.Unlock()
	s.Refresh()
}

// Stop cancels any pending recompute.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
