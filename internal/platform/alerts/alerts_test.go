package alerts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmawatch/pharmawatch/internal/domain/medicine"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func batch(name, batchNumber, facility string, expiryDays, stock, reorder int) *medicine.Record {
	return &medicine.Record{
		Name:         name,
		BatchNumber:  batchNumber,
		Facility:     facility,
		Expiry:       testNow.AddDate(0, 0, expiryDays),
		Stock:        stock,
		ReorderLevel: reorder,
	}
}

func TestGenerateExpired(t *testing.T) {
	out := Generate([]*medicine.Record{batch("Paracetamol", "PCM-01", "Bo Government Hospital", -2, 100, 10)}, testNow)
	require.Len(t, out, 1)
	assert.Equal(t, "PCM-01-expired", out[0].ID)
	assert.Equal(t, SeverityDanger, out[0].Severity)
	assert.Equal(t, "Paracetamol [Bo Government Hospital] has expired on "+
		testNow.AddDate(0, 0, -2).Format("2006-01-02"), out[0].Message)
}

func TestGenerateExpiringWindow(t *testing.T) {
	// Seven days away is inside the alert window, eight is not.
	out := Generate([]*medicine.Record{batch("A", "A-01", "Clinic", 7, 100, 10)}, testNow)
	require.Len(t, out, 1)
	assert.Equal(t, "A-01-expiring", out[0].ID)
	assert.Equal(t, SeverityWarning, out[0].Severity)

	out = Generate([]*medicine.Record{batch("A", "A-01", "Clinic", 8, 100, 10)}, testNow)
	assert.Empty(t, out)
}

func TestGenerateLowStockAlongsideExpiry(t *testing.T) {
	out := Generate([]*medicine.Record{batch("A", "A-01", "Clinic", -1, 2, 10)}, testNow)
	require.Len(t, out, 2)
	assert.Equal(t, "A-01-expired", out[0].ID)
	assert.Equal(t, "A-01-lowstock", out[1].ID)
	assert.Equal(t, SeverityInfo, out[1].Severity)
	assert.Equal(t, "A [Clinic] is low on stock (2 <= 10)", out[1].Message)
}

func TestGenerateHealthyBatchSilent(t *testing.T) {
	out := Generate([]*medicine.Record{batch("A", "A-01", "Clinic", 365, 100, 10)}, testNow)
	assert.Empty(t, out)
}

type stubSource struct {
	mu      sync.Mutex
	records []*medicine.Record
	calls   int
}

func (s *stubSource) All(context.Context, medicine.Filter) ([]*medicine.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.records, nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestScheduler(records ...*medicine.Record) (*Scheduler, *stubSource) {
	src := &stubSource{records: records}
	sched := NewScheduler(src, zerolog.Nop())
	sched.SetClock(func() time.Time { return testNow })
	sched.SetDebounce(10 * time.Millisecond)
	return sched, src
}

func TestSchedulerRefresh(t *testing.T) {
	sched, _ := newTestScheduler(batch("A", "A-01", "Clinic", -1, 100, 10))
	sched.Refresh()

	active := sched.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "A-01-expired", active[0].ID)
}

func TestSchedulerDebounceCoalesces(t *testing.T) {
	sched, src := newTestScheduler(batch("A", "A-01", "Clinic", -1, 100, 10))

	for i := 0; i < 10; i++ {
		sched.Notify()
	}
	assert.Equal(t, 0, src.callCount())

	assert.Eventually(t, func() bool { return src.callCount() == 1 },
		time.Second, 5*time.Millisecond)

	// Quiet period passed with no further notifications.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, src.callCount())
	assert.Len(t, sched.Active(), 1)
}

func TestSchedulerDismissAndRestore(t *testing.T) {
	sched, _ := newTestScheduler(batch("A", "A-01", "Clinic", -1, 100, 10))
	sched.Refresh()
	require.Len(t, sched.Active(), 1)

	sched.Dismiss("A-01-expired")
	assert.Empty(t, sched.Active())
	assert.Equal(t, []string{"A-01-expired"}, sched.Dismissed())

	// Dismissal survives a recompute.
	sched.Refresh()
	assert.Empty(t, sched.Active())

	sched.Restore("A-01-expired")
	require.Len(t, sched.Active(), 1)
	assert.Empty(t, sched.Dismissed())
}

func TestSchedulerStopCancelsPending(t *testing.T) {
	sched, src := newTestScheduler()
	sched.Notify()
	sched.Stop()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, src.callCount())
}
