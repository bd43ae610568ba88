package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountries(t *testing.T) {
	assert.Equal(t, []string{"Sierra Leone"}, Countries())
}

func TestDistricts(t *testing.T) {
	districts := Districts("Sierra Leone")
	assert.Len(t, districts, 11)
	assert.Contains(t, districts, "Bo District")
	assert.Contains(t, districts, "Western Area Urban")

	assert.Nil(t, Districts("Liberia"))
}

func TestChiefdoms(t *testing.T) {
	chiefdoms := Chiefdoms("Sierra Leone", "Bo District")
	assert.Equal(t, []string{"Kakua Chiefdom", "Tikonko Chiefdom"}, chiefdoms)

	assert.Nil(t, Chiefdoms("Sierra Leone", "Nowhere District"))
	assert.Nil(t, Chiefdoms("Liberia", "Bo District"))
}

func TestFacilities(t *testing.T) {
	facilities := Facilities("Sierra Leone", "Bo District", "Kakua Chiefdom")
	assert.Equal(t, []string{"Bo Government Hospital", "Bandajuma CHC"}, facilities)

	assert.Nil(t, Facilities("Sierra Leone", "Bo District", "Nowhere Chiefdom"))
}

func TestReorderLevel(t *testing.T) {
	assert.Equal(t, 25, ReorderLevel("Bo Government Hospital"))
	assert.Equal(t, 8, ReorderLevel("Blama PHU"))
	assert.Equal(t, DefaultReorderLevel, ReorderLevel("Brand New Clinic"))
}

func TestValidPath(t *testing.T) {
	cases := []struct {
		name                                  string
		country, district, chiefdom, facility string
		want                                  bool
	}{
		{"full valid path", "Sierra Leone", "Bo District", "Kakua Chiefdom", "Bo Government Hospital", true},
		{"valid partial path", "Sierra Leone", "Bo District", "", "", true},
		{"all empty", "", "", "", "", true},
		{"unknown country", "Liberia", "", "", "", false},
		{"district under wrong country", "Sierra Leone", "Montserrado", "", "", false},
		{"facility under wrong chiefdom", "Sierra Leone", "Bo District", "Tikonko Chiefdom", "Bo Government Hospital", false},
		{"lower level without higher", "", "Bo District", "", "", false},
		{"facility without chiefdom", "Sierra Leone", "Bo District", "", "Bo Government Hospital", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidPath(tc.country, tc.district, tc.chiefdom, tc.facility))
		})
	}
}
