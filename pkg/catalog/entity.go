package catalog

import (
	"fmt"
	"html"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

type Kind string

const (
	Point  Kind = "point"
	Region Kind = "region"
)

// Handle is the drawable object a rendering surface owns for an entity. The
// catalog only stores and hands it back; nil means nothing is attached yet.
type Handle interface{}

// Entity is a visited town (Point) or country (Region).
type Entity struct {
	// ID is unique per kind; a repeated name gets a " #2" style suffix.
	ID       string
	// Name is the record's trimmed name before any suffix.
	Name     string
	Kind     Kind
	Country  string
	Lat, Lng float64
	Geometry *geojson.Geometry
	Years    YearSet
	Visual   Handle
}

// Key identifies the entity across kinds, e.g. "region:Botswana".
func (e *Entity) Key() string { return string(e.Kind) + ":" + e.ID }

// Visited reports whether the entity has at least one visit year.
func (e *Entity) Visited() bool { return e.Years.Len() > 0 }

// Popup renders the HTML shown when the entity is clicked on the map.
func (e *Entity) Popup() string {
	visited := e.Years.String()
	if visited == "" {
		visited = "never"
	}
	if e.Kind == Point {
		label := html.EscapeString(e.ID)
		if e.Country != "" {
			label += ", " + html.EscapeString(e.Country)
		}
		return fmt.Sprintf("📍 %s<br>Visited: %s", label, html.EscapeString(visited))
	}
	return fmt.Sprintf("%s<br>Visited: %s", html.EscapeString(e.ID), html.EscapeString(visited))
}

// Feature converts the entity into a GeoJSON feature for the map page.
func (e *Entity) Feature() *geojson.Feature {
	geom := e.Geometry
	if geom == nil && e.Kind == Point {
		geom = geojson.NewPointGeometry([]float64{e.Lng, e.Lat})
	}
	f := geojson.NewFeature(geom)
	f.ID = e.Key()
	f.SetProperty("key", e.Key())
	f.SetProperty("id", e.ID)
	f.SetProperty("kind", string(e.Kind))
	f.SetProperty("country", e.Country)
	f.SetProperty("years", e.Years.Sorted())
	f.SetProperty("popup", e.Popup())
	return f
}

// RawPlace is a town record as read from a data source. Coordinates stay as
// text until the builder parses them.
type RawPlace struct {
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
	Lat     string `json:"lat" yaml:"lat"`
	Lng     string `json:"lng" yaml:"lng"`
	Years   Years  `json:"years" yaml:"years"`

	Source string `json:"-" yaml:"-"`
	Line   int    `json:"-" yaml:"-"`
}

// RawRegion is a country record, usually a GeoJSON polygon feature.
type RawRegion struct {
	Name     string            `json:"name" yaml:"name"`
	Years    Years             `json:"years" yaml:"years"`
	Geometry *geojson.Geometry `json:"-" yaml:"-"`

	Source string `json:"-" yaml:"-"`
}

func nameKey(mode MatchMode, name string) string {
	if mode == Exact {
		return name
	}
	return strings.ToLower(strings.TrimSpace(name))
}
