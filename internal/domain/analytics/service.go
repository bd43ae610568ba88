// Package analytics aggregates the inventory into the figures the
// dashboard charts: status buckets, per-district stock and per-medicine
// consumption.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/pharmawatch/pharmawatch/internal/domain/medicine"
)

// Inventory is the slice of the medicine service analytics reads from.
type Inventory interface {
	All(ctx context.Context, f medicine.Filter) ([]*medicine.Record, error)
}

// DistrictBreakdown aggregates one district.
type DistrictBreakdown struct {
	District     string `json:"district"`
	Batches      int    `json:"batches"`
	Stock        int    `json:"stock"`
	Consumed     int    `json:"consumed"`
	Expired      int    `json:"expired"`
	ExpiringSoon int    `json:"expiring_soon"`
	LowStock     int    `json:"low_stock"`
}

// ConsumptionRow aggregates one medicine name across batches.
type ConsumptionRow struct {
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	Consumed     int    `json:"consumed"`
	ReorderLevel int    `json:"reorder_level"`
}

// FacilityStock is one heat-map cell: total units held at a facility.
type FacilityStock struct {
	Facility string `json:"facility"`
	Stock    int    `json:"stock"`
}

type Service struct {
	inventory Inventory
	now       func() time.Time
}

func NewService(inventory Inventory) *Service {
	return &Service{inventory: inventory, now: time.Now}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Summary buckets the filtered inventory by primary status.
func (s *Service) Summary(ctx context.Context, f medicine.Filter) (medicine.Summary, error) {
	records, err := s.inventory.All(ctx, f)
	if err != nil {
		return medicine.Summary{}, err
	}
	return medicine.StockSummary(records, s.now(), medicine.DefaultExpiryThreshold), nil
}

// ByDistrict aggregates stock, consumption and problem counts per district,
// sorted by district name.
func (s *Service) ByDistrict(ctx context.Context, f medicine.Filter) ([]*DistrictBreakdown, error) {
	records, err := s.inventory.All(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	byDistrict := make(map[string]*DistrictBreakdown)
	for _, r := range records {
		b, ok := byDistrict[r.District]
		if !ok {
			b = &DistrictBreakdown{District: r.District}
			byDistrict[r.District] = b
		}
		b.Batches++
		b.Stock += r.Stock
		b.Consumed += r.Consumed

		flags := medicine.Classify(r, now, medicine.DefaultExpiryThreshold)
		switch {
		case flags.Expired:
			b.Expired++
		case flags.ExpiringSoon:
			b.ExpiringSoon++
		case flags.LowStock:
			b.LowStock++
		}
	}

	out := make([]*DistrictBreakdown, 0, len(byDistrict))
	for _, b := range byDistrict {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].District < out[j].District })
	return out, nil
}

// Consumption aggregates stock and consumed totals per medicine name,
// sorted by consumed descending then name. The reorder level reported is
// the highest across the name's batches.
func (s *Service) Consumption(ctx context.Context, f medicine.Filter) ([]*ConsumptionRow, error) {
	records, err := s.inventory.All(ctx, f)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*ConsumptionRow)
	for _, r := range records {
		row, ok := byName[r.Name]
		if !ok {
			row = &ConsumptionRow{Name: r.Name}
			byName[r.Name] = row
		}
		row.Stock += r.Stock
		row.Consumed += r.Consumed
		if r.ReorderLevel > row.ReorderLevel {
			row.ReorderLevel = r.ReorderLevel
		}
	}

	out := make([]*ConsumptionRow, 0, len(byName))
	for _, row := range byName {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Consumed != out[j].Consumed {
			return out[i].Consumed > out[j].Consumed
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ByFacility aggregates total stock per facility, sorted by stock
// descending then name.
func (s *Service) ByFacility(ctx context.Context, f medicine.Filter) ([]*FacilityStock, error) {
	records, err := s.inventory.All(ctx, f)
	if err != nil {
		return nil, err
	}

	byFacility := make(map[string]int)
	for _, r := range records {
		byFacility[r.Facility] += r.Stock
	}

	out := make([]*FacilityStock, 0, len(byFacility))
	for facility, stock := range byFacility {
		out = append(out, &FacilityStock{Facility: facility, Stock: stock})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock > out[j].Stock
		}
		return out[i].Facility < out[j].Facility
	})
	return out, nil
}
