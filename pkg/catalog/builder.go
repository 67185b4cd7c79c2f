package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MatchMode controls how region names are compared with the country of place
// records.
type MatchMode int

const (
	// CaseInsensitiveTrimmed ignores case and surrounding whitespace.
	CaseInsensitiveTrimmed MatchMode = iota
	Exact
)

func (m MatchMode) String() string {
	if m == Exact {
		return "exact"
	}
	return "case-insensitive-trimmed"
}

// ParseMatchMode reads a mode from configuration text. Empty input selects
// the default CaseInsensitiveTrimmed mode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ci", "case-insensitive", "case-insensitive-trimmed", "caseinsensitivetrimmed":
		return CaseInsensitiveTrimmed, nil
	case "exact":
		return Exact, nil
	}
	return CaseInsensitiveTrimmed, fmt.Errorf("unknown match mode %q", s)
}

type Builder struct {
	Mode MatchMode
}

// Build normalizes places and regions with the default builder.
func Build(places []RawPlace, regions []RawRegion) (*Catalog, *Report) {
	return (&Builder{}).Build(places, regions)
}

// Build turns raw records into a catalog. Bad records are dropped and noted in
// the report; Build itself never fails.
func (b *Builder) Build(places []RawPlace, regions []RawRegion) (*Catalog, *Report) {
	report := &Report{}
	c := newCatalog(len(places) + len(regions))

	// country name -> years of every place visited there
	countryYears := make(map[string]YearSet)

	for _, p := range places {
		lat, latErr := parseCoordinate(p.Lat, 90)
		lng, lngErr := parseCoordinate(p.Lng, 180)
		if latErr != nil || lngErr != nil {
			err := latErr
			if err == nil {
				err = lngErr
			}
			report.Add(Issue{
				Kind:   MalformedCoordinate,
				Source: p.Source,
				Record: p.City,
				Line:   p.Line,
				Err:    fmt.Errorf("%w: %v", ErrMalformedCoordinate, err),
			})
			continue
		}
		years := p.Years.Set()
		if p.Country != "" {
			k := nameKey(b.Mode, p.Country)
			countryYears[k] = countryYears[k].Union(years)
		}
		name := strings.TrimSpace(p.City)
		c.add(&Entity{
			ID:      name,
			Name:    name,
			Kind:    Point,
			Country: strings.TrimSpace(p.Country),
			Lat:     lat,
			Lng:     lng,
			Years:   years,
		})
	}

	// Records naming the same country collapse into one region: a visited
	// country list and the map's polygons join here.
	type group struct {
		key    string
		name   string
		source string
		geom   bool
		years  YearSet
		entity *Entity
	}
	var groups []*group
	byName := make(map[string]*group)
	for _, r := range regions {
		k := nameKey(b.Mode, r.Name)
		g, ok := byName[k]
		if !ok {
			g = &group{key: k, name: strings.TrimSpace(r.Name), source: r.Source, entity: &Entity{Kind: Region}}
			byName[k] = g
			groups = append(groups, g)
		}
		g.years = g.years.Union(r.Years.Set())
		if r.Geometry != nil && !g.geom {
			g.geom = true
			g.name = strings.TrimSpace(r.Name)
			g.entity.Geometry = r.Geometry
		}
	}

	for _, g := range groups {
		years := g.years
		if visited, ok := countryYears[g.key]; ok {
			years = years.Union(visited)
		}
		if years.Len() == 0 {
			report.Add(Issue{
				Kind:   UnmatchedRegionName,
				Source: g.source,
				Record: g.name,
				Err:    ErrUnmatchedRegionName,
			})
		}
		g.entity.ID = g.name
		g.entity.Name = g.name
		g.entity.Country = g.name
		g.entity.Years = years
		c.add(g.entity)
	}
	return c, report
}

func parseCoordinate(text string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, fmt.Errorf("%q out of range ±%g", text, limit)
	}
	return v, nil
}
