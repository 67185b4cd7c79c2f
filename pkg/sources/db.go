package sources

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/storage"
)

// DBSource reads the places imported into the visits database.
type DBSource struct {
	baseSource
	// Filter narrows the stored places; the zero value returns all of them.
	Filter storage.ListOptions
}

func (s *DBSource) Load(ctx context.Context) (Dataset, error) {
	if _, err := os.Stat(s.location); err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", s.name, err)
	}
	db, err := storage.Open(s.location)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: open database: %w", s.name, err)
	}
	defer db.Close()

	places, err := db.ListPlaces(ctx, s.Filter)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: list places: %w", s.name, err)
	}
	ds := Dataset{Places: make([]catalog.RawPlace, 0, len(places))}
	for i, p := range places {
		ds.Places = append(ds.Places, catalog.RawPlace{
			City:    p.City,
			Country: p.Country,
			Lat:     strconv.FormatFloat(p.Lat, 'f', -1, 64),
			Lng:     strconv.FormatFloat(p.Lng, 'f', -1, 64),
			Years:   catalog.Years(p.Years),
			Source:  s.name,
			Line:    i + 1,
		})
	}
	return ds, nil
}
