package sources

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// GeoJSONSource reads a FeatureCollection. Point features become places and
// polygon features become regions.
type GeoJSONSource struct {
	baseSource
}

var featureNameFields = []string{"name", "admin", "name_en", "name_long", "sovereignt", "city"}

func (s *GeoJSONSource) Load(ctx context.Context) (Dataset, error) {
	body, err := s.read(ctx)
	if err != nil {
		return Dataset{}, err
	}
	return s.parse(body)
}

func (s *GeoJSONSource) parse(body []byte) (Dataset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: decode geojson: %w", s.name, err)
	}
	if !strings.EqualFold(fc.Type, "FeatureCollection") {
		return Dataset{}, fmt.Errorf("%s: unexpected geojson type %q", s.name, fc.Type)
	}

	var ds Dataset
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		props := lowerProps(f.Properties)
		years := featureYears(props)

		switch {
		case f.Geometry.IsPoint():
			p := catalog.RawPlace{
				City:    propString(props, featureNameFields),
				Country: propString(props, countryFields),
				Years:   years,
				Source:  s.name,
				Line:    i + 1,
			}
			if pt := f.Geometry.Point; len(pt) >= 2 {
				p.Lng = strconv.FormatFloat(pt[0], 'f', -1, 64)
				p.Lat = strconv.FormatFloat(pt[1], 'f', -1, 64)
			}
			ds.Places = append(ds.Places, p)
		case f.Geometry.IsPolygon(), f.Geometry.IsMultiPolygon():
			ds.Regions = append(ds.Regions, catalog.RawRegion{
				Name:     propString(props, featureNameFields),
				Years:    years,
				Geometry: f.Geometry,
				Source:   s.name,
			})
		}
	}
	return ds, nil
}

func lowerProps(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		key := strings.ToLower(k)
		if _, dup := out[key]; !dup {
			out[key] = v
		}
	}
	return out
}

func propString(props map[string]interface{}, aliases []string) string {
	for _, a := range aliases {
		if s, ok := props[a].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func featureYears(props map[string]interface{}) catalog.Years {
	for _, a := range yearFields {
		if v, ok := props[a]; ok && v != nil {
			if years, err := catalog.YearsOf(v); err == nil && len(years) > 0 {
				return years
			}
		}
	}
	if date := propString(props, dateFields); date != "" {
		return yearsFromDate(date)
	}
	return nil
}
