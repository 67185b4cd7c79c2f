package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// JSONSource reads structured records: either a top-level array or an object
// holding "places"/"locations" and "regions"/"countries" arrays.
type JSONSource struct {
	baseSource
	Regions bool
}

func (s *JSONSource) Load(ctx context.Context) (Dataset, error) {
	body, err := s.read(ctx)
	if err != nil {
		return Dataset{}, err
	}
	return s.parse(body)
}

func (s *JSONSource) parse(body []byte) (Dataset, error) {
	if !gjson.ValidBytes(body) {
		return Dataset{}, fmt.Errorf("%s: invalid JSON", s.name)
	}
	doc := gjson.ParseBytes(body)

	var ds Dataset
	switch {
	case doc.IsArray():
		if s.Regions {
			ds.Regions = s.regions(doc)
		} else {
			ds.Places = s.places(doc)
		}
	case doc.IsObject():
		for _, key := range []string{"places", "locations", "towns"} {
			if arr := doc.Get(key); arr.IsArray() {
				ds.Places = append(ds.Places, s.places(arr)...)
			}
		}
		for _, key := range []string{"regions", "countries"} {
			if arr := doc.Get(key); arr.IsArray() {
				ds.Regions = append(ds.Regions, s.regions(arr)...)
			}
		}
	default:
		return Dataset{}, fmt.Errorf("%s: expected an array or object of records", s.name)
	}
	return ds, nil
}

// fieldsOf lower-cases the keys of a JSON object.
func fieldsOf(obj gjson.Result) map[string]gjson.Result {
	out := make(map[string]gjson.Result)
	obj.ForEach(func(k, v gjson.Result) bool {
		key := strings.ToLower(strings.TrimSpace(k.String()))
		if _, dup := out[key]; !dup {
			out[key] = v
		}
		return true
	})
	return out
}

func first(fields map[string]gjson.Result, aliases []string) (gjson.Result, bool) {
	for _, a := range aliases {
		if v, ok := fields[a]; ok && v.Type != gjson.Null && strings.TrimSpace(v.String()) != "" {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func text(fields map[string]gjson.Result, aliases []string) string {
	v, _ := first(fields, aliases)
	return strings.TrimSpace(v.String())
}

func jsonYears(fields map[string]gjson.Result) catalog.Years {
	if v, ok := first(fields, yearFields); ok {
		if v.IsArray() {
			var out catalog.Years
			for _, item := range v.Array() {
				out = append(out, item.String())
			}
			return out
		}
		return catalog.Years{v.String()}
	}
	if v, ok := first(fields, dateFields); ok {
		return yearsFromDate(v.String())
	}
	return nil
}

func (s *JSONSource) places(arr gjson.Result) []catalog.RawPlace {
	var out []catalog.RawPlace
	for i, item := range arr.Array() {
		if !item.IsObject() {
			continue
		}
		f := fieldsOf(item)
		out = append(out, catalog.RawPlace{
			City:    text(f, cityFields),
			Country: text(f, countryFields),
			Lat:     text(f, latFields),
			Lng:     text(f, lngFields),
			Years:   jsonYears(f),
			Source:  s.name,
			Line:    i + 1,
		})
	}
	return out
}

func (s *JSONSource) regions(arr gjson.Result) []catalog.RawRegion {
	var out []catalog.RawRegion
	for _, item := range arr.Array() {
		if !item.IsObject() {
			continue
		}
		f := fieldsOf(item)
		out = append(out, catalog.RawRegion{
			Name:   text(f, regionFields),
			Years:  jsonYears(f),
			Source: s.name,
		})
	}
	return out
}
