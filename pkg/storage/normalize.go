package storage

import "github.com/murraystephenson/TravelMap/pkg/catalog"

// PlacesFromCatalog converts the point entities of a built catalog into rows
// for the given source.
func PlacesFromCatalog(source string, c *catalog.Catalog) []Place {
	points := c.Points()
	out := make([]Place, 0, len(points))
	for _, e := range points {
		out = append(out, Place{
			Source:  source,
			City:    e.Name,
			Country: e.Country,
			Lat:     e.Lat,
			Lng:     e.Lng,
			Years:   e.Years.Sorted(),
		})
	}
	return out
}
