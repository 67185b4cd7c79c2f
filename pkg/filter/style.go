package filter

import "github.com/murraystephenson/TravelMap/pkg/catalog"

// Style is the Leaflet path style of a region polygon.
type Style struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      float64 `json:"weight"`
}

const (
	visitedFill    = "lightblue"
	visitedOpacity = 0.4
	regionWeight   = 0.5
)

// RegionStyle is the initial style of a region: visited regions are filled.
// It needs only the year set, so it is correct before any visual handle
// exists.
func RegionStyle(e *catalog.Entity) Style {
	s := Style{Color: "transparent", FillColor: "transparent", Weight: regionWeight}
	if e.Visited() {
		s.FillColor = visitedFill
		s.FillOpacity = visitedOpacity
	}
	return s
}
