package cmd

import (
	"bytes"
	"testing"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/filter"
)

func TestPrintLayers(t *testing.T) {
	c, _ := catalog.Build([]catalog.RawPlace{
		{City: "Maun", Country: "Botswana", Lat: "-19.983", Lng: "23.431", Years: catalog.Years{"2021"}},
		{City: "Boston", Country: "USA", Lat: "42.36", Lng: "-71.05", Years: catalog.Years{"2017"}},
	}, nil)
	c.BindAll(func(e *catalog.Entity) catalog.Handle { return e.Key() })

	layers := filter.NewLayerSet()
	ctl := filter.NewController(c, layers)

	tests := []struct {
		token       string
		visibleOnly bool
		want        string
	}{
		{"2021", false, "+ point:Maun\n- point:Boston\n"},
		{"2021", true, "+ point:Maun\n"},
		{"2017", false, "- point:Maun\n+ point:Boston\n"},
		{"all", true, "+ point:Maun\n+ point:Boston\n"},
	}
	for _, tt := range tests {
		ctl.Select(tt.token)
		var buf bytes.Buffer
		printLayers(&buf, c, layers, tt.visibleOnly)
		if got := buf.String(); got != tt.want {
			t.Fatalf("select %q: got %q, want %q", tt.token, got, tt.want)
		}
	}
}
