package medicine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func located(name, batch, district, chiefdom, facility string) *Record {
	r := rec(days(365), 100, 10)
	r.Name = name
	r.BatchNumber = batch
	r.Country = "Sierra Leone"
	r.District = district
	r.Chiefdom = chiefdom
	r.Facility = facility
	return r
}

func TestFilterSearch(t *testing.T) {
	r := located("Amoxicillin 250mg", "AMX-2026-01", "Bo", "Badjia", "Bo Government Hospital")

	cases := []struct {
		name   string
		search string
		want   bool
	}{
		{"empty matches", "", true},
		{"whitespace only matches", "   ", true},
		{"name substring", "amox", true},
		{"name case insensitive", "AMOXICILLIN", true},
		{"batch substring", "2026", true},
		{"facility substring", "government", true},
		{"no match", "ibuprofen", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Filter{Search: tc.search}
			assert.Equal(t, tc.want, f.Matches(r, testNow))
		})
	}
}

func TestFilterLocation(t *testing.T) {
	r := located("Amoxicillin", "AMX-01", "Bo", "Badjia", "Ngelehun CHC")

	assert.True(t, Filter{Country: "Sierra Leone"}.Matches(r, testNow))
	assert.False(t, Filter{Country: "Liberia"}.Matches(r, testNow))
	assert.True(t, Filter{District: "Bo"}.Matches(r, testNow))
	assert.False(t, Filter{District: "Kenema"}.Matches(r, testNow))
	assert.True(t, Filter{Chiefdom: "Badjia", Facility: "Ngelehun CHC"}.Matches(r, testNow))
	assert.False(t, Filter{Facility: "Other Clinic"}.Matches(r, testNow))
}

func TestFilterStatus(t *testing.T) {
	expired := located("Old drug", "OLD-01", "Bo", "Badjia", "Ngelehun CHC")
	expired.Expiry = days(-1)
	low := located("Low drug", "LOW-01", "Bo", "Badjia", "Ngelehun CHC")
	low.Stock = 2

	assert.True(t, Filter{Status: StatusExpired}.Matches(expired, testNow))
	assert.False(t, Filter{Status: StatusExpired}.Matches(low, testNow))
	assert.True(t, Filter{Status: StatusLowStock}.Matches(low, testNow))
	assert.False(t, Filter{Status: StatusOK}.Matches(expired, testNow))
}

func TestFilterStatusPrimaryEquality(t *testing.T) {
	// Each record shows up under exactly one status filter. A batch that
	// is both expired and below its reorder level belongs to expired.
	both := located("Old low drug", "OL-01", "Bo", "Badjia", "Ngelehun CHC")
	both.Expiry = days(-3)
	both.Stock = 2

	assert.True(t, Filter{Status: StatusExpired}.Matches(both, testNow))
	assert.False(t, Filter{Status: StatusLowStock}.Matches(both, testNow))
	assert.False(t, Filter{Status: StatusOutOfStock}.Matches(both, testNow))
	assert.False(t, Filter{Status: StatusOK}.Matches(both, testNow))

	noExpiry := located("Undated drug", "UD-01", "Bo", "Badjia", "Ngelehun CHC")
	noExpiry.Expiry = time.Time{}
	assert.False(t, Filter{Status: StatusOK}.Matches(noExpiry, testNow))
	assert.False(t, Filter{Status: StatusExpired}.Matches(noExpiry, testNow))
}

func TestFilterCascade(t *testing.T) {
	f := Filter{}
	f.SetCountry("Sierra Leone")
	f.SetDistrict("Bo")
	f.SetChiefdom("Badjia")
	f.Facility = "Ngelehun CHC"

	// Reselecting the district clears everything below it.
	f.SetDistrict("Kenema")
	assert.Equal(t, "Kenema", f.District)
	assert.Empty(t, f.Chiefdom)
	assert.Empty(t, f.Facility)

	// Reselecting the country clears the whole chain.
	f.SetChiefdom("Nongowa")
	f.SetCountry("Liberia")
	assert.Equal(t, "Liberia", f.Country)
	assert.Empty(t, f.District)
	assert.Empty(t, f.Chiefdom)
	assert.Empty(t, f.Facility)
}

func TestFilterApplyPreservesOrder(t *testing.T) {
	a := located("Aspirin", "A-01", "Bo", "Badjia", "Clinic")
	b := located("Bendazol", "B-01", "Kenema", "Nongowa", "Clinic")
	c := located("Aspirin Forte", "A-02", "Bo", "Badjia", "Clinic")

	f := Filter{Search: "aspirin"}
	got := f.Apply([]*Record{a, b, c}, testNow)
	assert.Equal(t, []*Record{a, c}, got)
}

func TestFilterCombined(t *testing.T) {
	r := located("Amoxicillin", "AMX-01", "Bo", "Badjia", "Ngelehun CHC")
	r.Stock = 1

	f := Filter{Search: "amox", District: "Bo", Status: StatusLowStock}
	assert.True(t, f.Matches(r, testNow))

	f.Status = StatusExpired
	assert.False(t, f.Matches(r, testNow))
}
