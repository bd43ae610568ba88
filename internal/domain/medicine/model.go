// Package medicine holds the batch inventory model and the status and
// filtering engine built on top of it.
package medicine

import (
	"time"

	"github.com/google/uuid"
)

// Expiry thresholds in days. The table view flags anything expiring within a
// month; the alert feed only surfaces the final week.
const (
	DefaultExpiryThreshold = 30
	AlertExpiryThreshold   = 7
)

// Status is the primary stock-health classification of a batch.
type Status string

const (
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusOutOfStock   Status = "out_of_stock"
	StatusLowStock     Status = "low_stock"
	StatusOK           Status = "ok"
)

// ValidStatus reports whether s names a known classification.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusExpired, StatusExpiringSoon, StatusOutOfStock, StatusLowStock, StatusOK:
		return true
	}
	return false
}

// Record maps to the medicines table. One row per batch; batch_number is
// unique and immutable after creation.
type Record struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	BatchNumber  string    `db:"batch_number" json:"batch_number"`
	Expiry       time.Time `db:"expiry" json:"expiry"`
	Stock        int       `db:"stock" json:"stock"`
	ReorderLevel int       `db:"reorder_level" json:"reorder_level"`
	Consumed     int       `db:"consumed" json:"consumed"`
	Country      string    `db:"country" json:"country"`
	District     string    `db:"district" json:"district"`
	Chiefdom     string    `db:"chiefdom" json:"chiefdom"`
	Facility     string    `db:"facility" json:"facility"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StatusFlags is the full classification of a batch. Expired and
// ExpiringSoon are mutually exclusive; LowStock is independent of both.
// OutOfStock refines LowStock for a stock of exactly zero. HasExpiry is
// false when the record carries no expiry date at all, in which case the
// batch is never reported as ok.
type StatusFlags struct {
	Expired      bool `json:"expired"`
	ExpiringSoon bool `json:"expiring_soon"`
	LowStock     bool `json:"low_stock"`
	OutOfStock   bool `json:"out_of_stock"`
	HasExpiry    bool `json:"has_expiry"`
	OK           bool `json:"ok"`
}

// DaysUntilExpiry returns the number of whole days from now until the
// record's expiry date. Both are truncated to calendar days first, so a
// batch expiring later today reports 0, not -1.
func DaysUntilExpiry(r *Record, now time.Time) int {
	expiry := time.Date(r.Expiry.Year(), r.Expiry.Month(), r.Expiry.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24)
}

// Classify evaluates a record's stock health at the given instant.
// thresholdDays controls the expiring-soon window and is caller supplied so
// the table (30 days) and the alert feed (7 days) can differ.
func Classify(r *Record, now time.Time, thresholdDays int) StatusFlags {
	flags := StatusFlags{
		LowStock:   r.Stock <= r.ReorderLevel,
		OutOfStock: r.Stock == 0,
		HasExpiry:  !r.Expiry.IsZero(),
	}

	// A record without an expiry date is neither expired nor expiring, but
	// the missing date also keeps it out of the ok bucket.
	if flags.HasExpiry {
		days := DaysUntilExpiry(r, now)
		flags.Expired = days < 0
		flags.ExpiringSoon = days >= 0 && days <= thresholdDays
	}
	flags.OK = flags.HasExpiry && !flags.Expired && !flags.ExpiringSoon && !flags.LowStock
	return flags
}

// Primary collapses the flags to a single status with fixed precedence:
// expired, then expiring soon, then stock problems, then ok.
func (f StatusFlags) Primary() Status {
	switch {
	case f.Expired:
		return StatusExpired
	case f.ExpiringSoon:
		return StatusExpiringSoon
	case f.OutOfStock:
		return StatusOutOfStock
	case f.LowStock:
		return StatusLowStock
	default:
		return StatusOK
	}
}

// Matches reports whether the primary status equals the requested filter
// value. An expired batch that also happens to be low on stock is expired,
// not low_stock. Two exceptions: a filter on low_stock still matches
// out-of-stock batches since those are the subset with zero stock, and ok
// additionally requires the record to carry an expiry date.
func (f StatusFlags) Matches(s Status) bool {
	if s == StatusOK {
		return f.OK
	}
	p := f.Primary()
	if s == StatusLowStock && p == StatusOutOfStock {
		return true
	}
	return p == s
}

// Summary counts records per primary status bucket.
type Summary struct {
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiring_soon"`
	LowStock     int `json:"low_stock"`
	OK           int `json:"ok"`
	Total        int `json:"total"`
}

// StockSummary buckets each record by its primary status. Out-of-stock
// batches are counted under low stock here; the finer split only matters to
// the alert feed.
func StockSummary(records []*Record, now time.Time, thresholdDays int) Summary {
	var s Summary
	for _, r := range records {
		flags := Classify(r, now, thresholdDays)
		switch {
		case flags.Expired:
			s.Expired++
		case flags.ExpiringSoon:
			s.ExpiringSoon++
		case flags.LowStock:
			s.LowStock++
		default:
			s.OK++
		}
	}
	s.Total = len(records)
	return s
}
