package medicine

import (
	"strings"
	"time"
)

// Filter is a per-request query over the inventory: a free-text search term,
// the four location levels, and one status value. Zero values mean "no
// constraint".
type Filter struct {
	Search   string
	Country  string
	District string
	Chiefdom string
	Facility string
	Status   Status
}

// SetCountry sets the country filter and resets every level below it, so a
// stale district from a previous country cannot survive.
func (f *Filter) SetCountry(country string) {
	f.Country = country
	f.District = ""
	f.Chiefdom = ""
	f.Facility = ""
}

// SetDistrict sets the district filter and resets chiefdom and facility.
func (f *Filter) SetDistrict(district string) {
	f.District = district
	f.Chiefdom = ""
	f.Facility = ""
}

// SetChiefdom sets the chiefdom filter and resets facility.
func (f *Filter) SetChiefdom(chiefdom string) {
	f.Chiefdom = chiefdom
	f.Facility = ""
}

// Matches reports whether a record satisfies every active constraint. The
// search term is a case-insensitive substring match over name, batch number
// and facility; a blank or whitespace-only term matches everything.
func (f Filter) Matches(r *Record, now time.Time) bool {
	if term := strings.TrimSpace(f.Search); term != "" {
		term = strings.ToLower(term)
		if !strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.BatchNumber), term) &&
			!strings.Contains(strings.ToLower(r.Facility), term) {
			return false
		}
	}
	if f.Country != "" && r.Country != f.Country {
		return false
	}
	if f.District != "" && r.District != f.District {
		return false
	}
	if f.Chiefdom != "" && r.Chiefdom != f.Chiefdom {
		return false
	}
	if f.Facility != "" && r.Facility != f.Facility {
		return false
	}
	if f.Status != "" {
		flags := Classify(r, now, DefaultExpiryThreshold)
		if !flags.Matches(f.Status) {
			return false
		}
	}
	return true
}

// Apply filters a slice in order, preserving the input ordering.
func (f Filter) Apply(records []*Record, now time.Time) []*Record {
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r, now) {
			out = append(out, r)
		}
	}
	return out
}
