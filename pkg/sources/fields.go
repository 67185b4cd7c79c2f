package sources

import (
	"fmt"
	"strings"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// Column aliases seen across spreadsheets and JSON exports.
var (
	cityFields    = []string{"city", "town", "place", "name"}
	countryFields = []string{"country", "nation"}
	latFields     = []string{"lat", "latitude"}
	lngFields     = []string{"lng", "lon", "long", "longitude"}
	yearFields    = []string{"years", "year", "visited"}
	dateFields    = []string{"date", "visited_on"}
	regionFields  = []string{"name", "country", "region", "admin", "name_en"}
)

// header maps lower-cased column names to their index.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// lookup returns the first non-empty value among the aliases.
func (h header) lookup(row []string, aliases []string) string {
	for _, a := range aliases {
		if i, ok := h[a]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (h header) has(aliases []string) bool {
	for _, a := range aliases {
		if _, ok := h[a]; ok {
			return true
		}
	}
	return false
}

// yearsFromDate keeps the leading four-digit year of a date like 2023-05-01.
func yearsFromDate(date string) catalog.Years {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return nil
	}
	return catalog.Years{date[:4]}
}

func (h header) years(row []string) catalog.Years {
	if v := h.lookup(row, yearFields); v != "" {
		return catalog.Years{v}
	}
	if v := h.lookup(row, dateFields); v != "" {
		return yearsFromDate(v)
	}
	return nil
}

func (h header) place(row []string) catalog.RawPlace {
	return catalog.RawPlace{
		City:    h.lookup(row, cityFields),
		Country: h.lookup(row, countryFields),
		Lat:     h.lookup(row, latFields),
		Lng:     h.lookup(row, lngFields),
		Years:   h.years(row),
	}
}

func (h header) region(row []string) catalog.RawRegion {
	return catalog.RawRegion{
		Name:  h.lookup(row, regionFields),
		Years: h.years(row),
	}
}

// validate fails when the header lacks the columns every record needs.
func (h header) validate(regions bool) error {
	if regions {
		if !h.has(regionFields) {
			return fmt.Errorf("missing region name column (one of %s)", strings.Join(regionFields, ", "))
		}
		return nil
	}
	for _, need := range [][]string{cityFields, latFields, lngFields} {
		if !h.has(need) {
			return fmt.Errorf("missing column (one of %s)", strings.Join(need, ", "))
		}
	}
	return nil
}

// rows converts table rows into a dataset. line is the 1-based line of the
// first data row.
func (h header) rows(name string, rows [][]string, firstLine int, regions bool) Dataset {
	var ds Dataset
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if regions {
			r := h.region(row)
			r.Source = name
			ds.Regions = append(ds.Regions, r)
			continue
		}
		p := h.place(row)
		p.Source = name
		p.Line = firstLine + i
		ds.Places = append(ds.Places, p)
	}
	return ds
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
