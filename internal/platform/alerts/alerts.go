// Package alerts builds the notification feed for batches that need
// attention and keeps it current as the inventory changes.
package alerts

import (
	"fmt"
	"time"

	"github.com/pharmawatch/pharmawatch/internal/domain/medicine"
)

// Severity buckets for the feed. Danger outranks warning outranks info.
const (
	SeverityDanger  = "danger"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Alert is one feed entry. The ID is stable across recomputation so a
// dismissal sticks until the underlying condition changes identity.
type Alert struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Generate builds the feed for the given records. Expiry alerts use the
// seven day window; a batch is never both expired and expiring. Low stock
// is reported alongside either.
func Generate(records []*medicine.Record, now time.Time) []Alert {
	var out []Alert
	for _, r := range records {
		flags := medicine.Classify(r, now, medicine.AlertExpiryThreshold)
		prefix := fmt.Sprintf("%s [%s]", r.Name, r.Facility)
		expiry := r.Expiry.Format("2006-01-02")

		if flags.Expired {
			out = append(out, Alert{
				ID:       r.BatchNumber + "-expired",
				Severity: SeverityDanger,
				Message:  fmt.Sprintf("%s has expired on %s", prefix, expiry),
			})
		} else if flags.ExpiringSoon {
			out = append(out, Alert{
				ID:       r.BatchNumber + "-expiring",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s will expire soon (%s)", prefix, expiry),
			})
		}

		if flags.LowStock {
			out = append(out, Alert{
				ID:       r.BatchNumber + "-lowstock",
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("%s is low on stock (%d <= %d)", prefix, r.Stock, r.ReorderLevel),
			})
		}
	}
	return out
}
