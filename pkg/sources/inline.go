package sources

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

//go:embed sample.yaml
var sampleYAML []byte

// InlineSource reads places and regions written directly in a YAML document.
// Without a location it serves the embedded sample travel log.
type InlineSource struct {
	baseSource
}

type inlineDoc struct {
	Places  []catalog.RawPlace  `yaml:"places"`
	Regions []catalog.RawRegion `yaml:"regions"`
}

func (s *InlineSource) Load(ctx context.Context) (Dataset, error) {
	body := sampleYAML
	if s.location != "" {
		var err error
		if body, err = s.read(ctx); err != nil {
			return Dataset{}, err
		}
	}
	return s.parse(body)
}

func (s *InlineSource) parse(body []byte) (Dataset, error) {
	var doc inlineDoc
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return Dataset{}, fmt.Errorf("%s: decode yaml: %w", s.name, err)
	}
	for i := range doc.Places {
		doc.Places[i].Source = s.name
		doc.Places[i].Line = i + 1
	}
	for i := range doc.Regions {
		doc.Regions[i].Source = s.name
	}
	return Dataset{Places: doc.Places, Regions: doc.Regions}, nil
}
