// Package sources loads raw place and region records from the data sources a
// map is configured with. Every source has its own failure boundary: one
// source failing never blocks or corrupts the others.
package sources

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/whttp"
)

// Dataset is what one source yields.
type Dataset struct {
	Places  []catalog.RawPlace
	Regions []catalog.RawRegion
}

// Source abstracts one data-source collaborator: inline literals, delimited
// text, a published spreadsheet, structured JSON, GeoJSON or the visits
// database.
type Source interface {
	Name() string
	Load(ctx context.Context) (Dataset, error)
}

// Config describes a source in the configuration file.
type Config struct {
	Type     string `mapstructure:"type" yaml:"type"`
	Name     string `mapstructure:"name" yaml:"name"`
	Location string `mapstructure:"location" yaml:"location"`
	// Records is "places" (default) or "regions" for table-shaped sources.
	Records   string `mapstructure:"records" yaml:"records"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Options carries the collaborators sources may need.
type Options struct {
	Client *retryablehttp.Client
	DBPath string
}

func (c Config) name() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Location == "" {
		return c.Type
	}
	return c.Type + ":" + c.Location
}

func (c Config) regions() bool { return strings.EqualFold(c.Records, "regions") }

// New builds the source described by cfg.
func New(cfg Config, opts Options) (Source, error) {
	base := baseSource{name: cfg.name(), location: cfg.Location, client: opts.Client}
	switch strings.ToLower(cfg.Type) {
	case "inline", "yaml":
		return &InlineSource{baseSource: base}, nil
	case "csv", "tsv":
		delim := cfg.Delimiter
		if delim == "" && strings.EqualFold(cfg.Type, "tsv") {
			delim = "\t"
		}
		return &CSVSource{baseSource: base, Delimiter: delim, Regions: cfg.regions()}, nil
	case "sheet", "html":
		return &SheetSource{baseSource: base, Regions: cfg.regions()}, nil
	case "json":
		return &JSONSource{baseSource: base, Regions: cfg.regions()}, nil
	case "geojson":
		return &GeoJSONSource{baseSource: base}, nil
	case "sqlite", "db":
		path := cfg.Location
		if path == "" {
			path = opts.DBPath
		}
		base.location = path
		return &DBSource{baseSource: base}, nil
	}
	return nil, fmt.Errorf("unknown source type %q", cfg.Type)
}

// NewAll builds every configured source, stopping at the first bad config.
func NewAll(cfgs []Config, opts Options) ([]Source, error) {
	out := make([]Source, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := New(cfg, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

type baseSource struct {
	name     string
	location string
	client   *retryablehttp.Client
}

func (b baseSource) Name() string { return b.name }

// read fetches the location over HTTP(S) or from the local filesystem.
func (b baseSource) read(ctx context.Context) ([]byte, error) {
	if b.location == "" {
		return nil, fmt.Errorf("%s: no location configured", b.name)
	}
	if isURL(b.location) {
		return whttp.Get(ctx, b.location, b.client)
	}
	return os.ReadFile(b.location)
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
