// Package location holds the geographic hierarchy the inventory is keyed
// on and the default reorder levels per facility.
package location

// Facility is a leaf of the hierarchy.
type Facility struct {
	Name string `json:"name"`
}

type Chiefdom struct {
	Name       string   `json:"name"`
	Facilities []string `json:"facilities"`
}

type District struct {
	Name      string     `json:"name"`
	Chiefdoms []Chiefdom `json:"chiefdoms"`
}

type Country struct {
	Name      string     `json:"name"`
	Districts []District `json:"districts"`
}

// Tree is the static hierarchy served to clients for the cascading filter
// dropdowns. Medicine records reference these names as plain strings.
var Tree = []Country{
	{
		Name: "Sierra Leone",
		Districts: []District{
			{
				Name: "Kenema District",
				Chiefdoms: []Chiefdom{
					{Name: "Koya Chiefdom", Facilities: []string{"Kenema Hospital", "Blama PHU"}},
					{Name: "Gaura Chiefdom", Facilities: []string{"Tondoya MCHP"}},
				},
			},
			{
				Name: "Kono District",
				Chiefdoms: []Chiefdom{
					{Name: "Fiama Chiefdom", Facilities: []string{"Koidu Government Hospital", "Ngaiya CHC"}},
				},
			},
			{
				Name: "Kailahun District",
				Chiefdoms: []Chiefdom{
					{Name: "Luawa Chiefdom", Facilities: []string{"Kailahun Gov. Hospital", "Buedu CHC"}},
				},
			},
			{
				Name: "Bombali District",
				Chiefdoms: []Chiefdom{
					{Name: "Makari Gbanti Chiefdom", Facilities: []string{"Makeni Gov. Hospital"}},
					{Name: "Safroko Limba Chiefdom", Facilities: []string{"Rokulan PHU", "Masongbo MCHP"}},
				},
			},
			{
				Name: "Tonkolili District",
				Chiefdoms: []Chiefdom{
					{Name: "Yoni Chiefdom", Facilities: []string{"Magburaka Hospital"}},
				},
			},
			{
				Name: "Port Loko District",
				Chiefdoms: []Chiefdom{
					{Name: "Marampa Chiefdom", Facilities: []string{"Lunsar Hospital", "Marampa CHC"}},
				},
			},
			{
				Name: "Kambia District",
				Chiefdoms: []Chiefdom{
					{Name: "Gbinle Dixing Chiefdom", Facilities: []string{"Kambia Hospital"}},
				},
			},
			{
				Name: "Bo District",
				Chiefdoms: []Chiefdom{
					{Name: "Kakua Chiefdom", Facilities: []string{"Bo Government Hospital", "Bandajuma CHC"}},
					{Name: "Tikonko Chiefdom", Facilities: []string{"Tikonko PHU"}},
				},
			},
			{
				Name: "Bonthe District",
				Chiefdoms: []Chiefdom{
					{Name: "Jong Chiefdom", Facilities: []string{"Mattru Jong Hospital"}},
				},
			},
			{
				Name: "Western Area Urban",
				Chiefdoms: []Chiefdom{
					{Name: "Freetown", Facilities: []string{"Connaught Hospital", "Cottage Hospital", "PCMH"}},
				},
			},
			{
				Name: "Western Area Rural",
				Chiefdoms: []Chiefdom{
					{Name: "Waterloo", Facilities: []string{"Waterloo CHC", "Grafton CHC"}},
				},
			},
		},
	},
}

// DefaultReorderLevel is used for facilities without a tuned level.
const DefaultReorderLevel = 10

var reorderLevels = map[string]int{
	"Kenema Hospital":           20,
	"Blama PHU":                 8,
	"Tondoya MCHP":              8,
	"Koidu Government Hospital": 22,
	"Ngaiya CHC":                10,
	"Kailahun Gov. Hospital":    20,
	"Buedu CHC":                 10,
	"Makeni Gov. Hospital":      25,
	"Rokulan PHU":               8,
	"Masongbo MCHP":             8,
	"Magburaka Hospital":        20,
	"Lunsar Hospital":           15,
	"Marampa CHC":               10,
	"Kambia Hospital":           15,
	"Bo Government Hospital":    25,
	"Bandajuma CHC":             10,
	"Tikonko PHU":               8,
	"Mattru Jong Hospital":      15,
	"Connaught Hospital":        25,
	"Cottage Hospital":          15,
	"PCMH":                      15,
	"Waterloo CHC":              10,
	"Grafton CHC":               10,
}

// ReorderLevel returns the default reorder level for a facility, falling
// back to DefaultReorderLevel for unknown names.
func ReorderLevel(facility string) int {
	if lvl, ok := reorderLevels[facility]; ok {
		return lvl
	}
	return DefaultReorderLevel
}

// Countries lists country names.
func Countries() []string {
	out := make([]string, 0, len(Tree))
	for _, c := range Tree {
		out = append(out, c.Name)
	}
	return out
}

// Districts lists district names under a country, or nil if the country is
// unknown.
func Districts(country string) []string {
	for _, c := range Tree {
		if c.Name == country {
			out := make([]string, 0, len(c.Districts))
			for _, d := range c.Districts {
				out = append(out, d.Name)
			}
			return out
		}
	}
	return nil
}

// Chiefdoms lists chiefdom names under a district.
func Chiefdoms(country, district string) []string {
	for _, c := range Tree {
		if c.Name != country {
			continue
		}
		for _, d := range c.Districts {
			if d.Name == district {
				out := make([]string, 0, len(d.Chiefdoms))
				for _, ch := range d.Chiefdoms {
					out = append(out, ch.Name)
				}
				return out
			}
		}
	}
	return nil
}

// Facilities lists facility names under a chiefdom.
func Facilities(country, district, chiefdom string) []string {
	for _, c := range Tree {
		if c.Name != country {
			continue
		}
		for _, d := range c.Districts {
			if d.Name != district {
				continue
			}
			for _, ch := range d.Chiefdoms {
				if ch.Name == chiefdom {
					return append([]string(nil), ch.Facilities...)
				}
			}
		}
	}
	return nil
}

// ValidPath reports whether the four names form a consistent path through
// the hierarchy. Empty lower levels are allowed; an empty higher level with
// a set lower level is not.
func ValidPath(country, district, chiefdom, facility string) bool {
	if country == "" {
		return district == "" && chiefdom == "" && facility == ""
	}
	var c *Country
	for i := range Tree {
		if Tree[i].Name == country {
			c = &Tree[i]
			break
		}
	}
	if c == nil {
		return false
	}
	if district == "" {
		return chiefdom == "" && facility == ""
	}
	var d *District
	for i := range c.Districts {
		if c.Districts[i].Name == district {
			d = &c.Districts[i]
			break
		}
	}
	if d == nil {
		return false
	}
	if chiefdom == "" {
		return facility == ""
	}
	var ch *Chiefdom
	for i := range d.Chiefdoms {
		if d.Chiefdoms[i].Name == chiefdom {
			ch = &d.Chiefdoms[i]
			break
		}
	}
	if ch == nil {
		return false
	}
	if facility == "" {
		return true
	}
	for _, f := range ch.Facilities {
		if f == facility {
			return true
		}
	}
	return false
}
