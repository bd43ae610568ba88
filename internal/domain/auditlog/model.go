// Package auditlog records administrative actions in an append-only trail.
package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// Action names the kinds of events the trail records.
const (
	ActionAdd         = "ADD"
	ActionUpdate      = "UPDATE"
	ActionDelete      = "DELETE"
	ActionBatchUpload = "BATCH_UPLOAD"
	ActionSync        = "SYNC"
)

var validActions = map[string]bool{
	ActionAdd: true, ActionUpdate: true, ActionDelete: true,
	ActionBatchUpload: true, ActionSync: true,
}

// ValidAction reports whether a names a known audit action.
func ValidAction(a string) bool { return validActions[a] }

// Entry is one audit trail row. Entries are never updated or deleted.
type Entry struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Timestamp    time.Time `db:"ts" json:"timestamp"`
	User         string    `db:"username" json:"user"`
	Action       string    `db:"action" json:"action"`
	MedicineName string    `db:"medicine_name" json:"medicine_name"`
	Details      string    `db:"details" json:"details"`
}

// Valid reports whether the entry is well formed enough to store. A zero
// timestamp means the caller never set one and the entry is dropped rather
// than recorded with an invented time.
func (e *Entry) Valid() bool {
	return !e.Timestamp.IsZero() &&
		e.User != "" &&
		ValidAction(e.Action) &&
		e.MedicineName != ""
}
