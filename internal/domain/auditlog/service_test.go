package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

type memRepo struct {
	entries []*Entry
}

func (m *memRepo) Append(_ context.Context, e *Entry) error {
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memRepo) List(_ context.Context, q Query) ([]*Entry, error) {
	var out []*Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if q.User != "" && e.User != q.User {
			continue
		}
		if q.Action != "" && e.Action != q.Action {
			continue
		}
		if !q.From.IsZero() && e.Timestamp.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && e.Timestamp.After(q.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func newTestService() (*Service, *memRepo) {
	repo := &memRepo{}
	svc := NewService(repo, zerolog.Nop())
	svc.SetClock(func() time.Time { return testNow })
	return svc, repo
}

func TestRecordStampsAndStores(t *testing.T) {
	svc, repo := newTestService()

	svc.Record(context.Background(), "admin", ActionAdd, "Paracetamol", "batch PCM-01")
	require.Len(t, repo.entries, 1)
	assert.Equal(t, testNow, repo.entries[0].Timestamp)
	assert.Equal(t, "admin", repo.entries[0].User)
	assert.Equal(t, ActionAdd, repo.entries[0].Action)
}

func TestRecordDropsInvalid(t *testing.T) {
	svc, repo := newTestService()

	svc.Record(context.Background(), "", ActionAdd, "Paracetamol", "")
	svc.Record(context.Background(), "admin", "REBOOT", "Paracetamol", "")
	svc.Record(context.Background(), "admin", ActionAdd, "", "")
	assert.Empty(t, repo.entries)
}

func TestRecordEntryRejectsZeroTimestamp(t *testing.T) {
	svc, repo := newTestService()

	ok := svc.RecordEntry(context.Background(), &Entry{
		User: "admin", Action: ActionSync, MedicineName: "all",
	})
	assert.False(t, ok)
	assert.Empty(t, repo.entries)

	ok = svc.RecordEntry(context.Background(), &Entry{
		Timestamp: testNow, User: "admin", Action: ActionSync, MedicineName: "all",
	})
	assert.True(t, ok)
	assert.Len(t, repo.entries, 1)
}

func TestListEndDateInclusive(t *testing.T) {
	svc, repo := newTestService()

	stamp := func(ts time.Time) {
		repo.entries = append(repo.entries, &Entry{
			Timestamp: ts, User: "admin", Action: ActionAdd, MedicineName: "Paracetamol",
		})
	}
	stamp(time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC))
	stamp(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	stamp(time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC))
	stamp(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	entries, err := svc.List(context.Background(), "", "", day, day)
	require.NoError(t, err)
	// Both entries on the 15th, including the one just before midnight.
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, 15, e.Timestamp.Day())
	}
}

func TestListFilters(t *testing.T) {
	svc, repo := newTestService()

	repo.entries = []*Entry{
		{Timestamp: testNow, User: "admin", Action: ActionAdd, MedicineName: "A"},
		{Timestamp: testNow, User: "clerk", Action: ActionAdd, MedicineName: "B"},
		{Timestamp: testNow, User: "admin", Action: ActionDelete, MedicineName: "C"},
	}

	entries, err := svc.List(context.Background(), "admin", "", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = svc.List(context.Background(), "admin", ActionDelete, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "C", entries[0].MedicineName)
}

func TestListSameTimestampKeepsInsertionOrder(t *testing.T) {
	svc, _ := newTestService()

	// A batch upload records its entries in one burst, all stamped with
	// the same clock value. Listing must still return them newest first
	// in reverse insertion order, not in an arbitrary tie order.
	for _, name := range []string{"Amoxicillin", "Ibuprofen", "Paracetamol"} {
		svc.Record(context.Background(), "admin", ActionBatchUpload, name, "row import")
	}

	entries, err := svc.List(context.Background(), "", "", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Paracetamol", entries[0].MedicineName)
	assert.Equal(t, "Ibuprofen", entries[1].MedicineName)
	assert.Equal(t, "Amoxicillin", entries[2].MedicineName)
}

func TestEntryValid(t *testing.T) {
	base := Entry{Timestamp: testNow, User: "admin", Action: ActionAdd, MedicineName: "Paracetamol"}
	assert.True(t, base.Valid())

	for name, mutate := range map[string]func(*Entry){
		"zero timestamp":   func(e *Entry) { e.Timestamp = time.Time{} },
		"empty user":       func(e *Entry) { e.User = "" },
		"unknown action":   func(e *Entry) { e.Action = "SHUTDOWN" },
		"empty medicine":   func(e *Entry) { e.MedicineName = "" },
	} {
		e := base
		mutate(&e)
		assert.False(t, e.Valid(), name)
	}
}
