package filter

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// recorder logs every surface call.
type recorder struct {
	calls []string
}

func (r *recorder) Attach(h catalog.Handle) { r.calls = append(r.calls, fmt.Sprintf("attach %v", h)) }
func (r *recorder) Detach(h catalog.Handle) { r.calls = append(r.calls, fmt.Sprintf("detach %v", h)) }

func maunBotswana(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, report := catalog.Build(
		[]catalog.RawPlace{{City: "Maun", Country: "Botswana", Lat: "-19.983", Lng: "23.431", Years: catalog.Years{"2021", "2022"}}},
		[]catalog.RawRegion{{Name: "Botswana"}},
	)
	if len(report.Errors()) != 0 {
		t.Fatalf("unexpected build errors: %v", report.Errors())
	}
	c.BindAll(func(e *catalog.Entity) catalog.Handle { return e.Key() })
	return c
}

func TestIsVisible(t *testing.T) {
	e := &catalog.Entity{ID: "Maun", Kind: catalog.Point, Years: catalog.NormalizeYears("2021, 2022")}
	empty := &catalog.Entity{ID: "Namibia", Kind: catalog.Region, Years: catalog.NormalizeYears()}

	tests := []struct {
		entity *catalog.Entity
		sel    Selection
		want   bool
	}{
		{e, All, true},
		{empty, All, true},
		{e, "2021", true},
		{e, "2022", true},
		{e, "2023", false},
		{empty, "2021", false},
	}
	for _, tc := range tests {
		if got := IsVisible(tc.entity, tc.sel); got != tc.want {
			t.Fatalf("IsVisible(%s, %q) = %v, want %v", tc.entity.ID, tc.sel, got, tc.want)
		}
	}
}

func TestParseSelection(t *testing.T) {
	for in, want := range map[string]Selection{
		"":       All,
		"all":    All,
		" ALL ":  All,
		"All":    All,
		"2021":   "2021",
		" 2013 ": "2013",
	} {
		if got := ParseSelection(in); got != want {
			t.Fatalf("ParseSelection(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestYearOptions(t *testing.T) {
	c, _ := catalog.Build([]catalog.RawPlace{
		{City: "New York", Lat: "40.712", Lng: "-74.006", Years: catalog.Years{"2016", "2013"}},
		{City: "Los Angeles", Lat: "34.055", Lng: "-118.242", Years: catalog.Years{"2013"}},
		{City: "Colombo", Lat: "6.927", Lng: "79.861", Years: catalog.Years{"2024"}},
	}, nil)

	got := YearOptions(c)
	want := []string{"All", "2013", "2016", "2024"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("YearOptions = %q, want %q", got, want)
	}
}

func TestApplyFilterSkipsMissingHandles(t *testing.T) {
	c, _ := catalog.Build(
		[]catalog.RawPlace{{City: "Maun", Country: "Botswana", Lat: "-19.983", Lng: "23.431", Years: catalog.Years{"2021"}}},
		[]catalog.RawRegion{{Name: "Botswana"}},
	)
	c.Bind("point:Maun", "marker")

	rec := &recorder{}
	ApplyFilter(c, "2021", rec)
	if want := []string{"attach marker"}; !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls = %q, want %q", rec.calls, want)
	}
}

func TestApplyFilterIdempotent(t *testing.T) {
	c := maunBotswana(t)

	once := &recorder{}
	ApplyFilter(c, "2023", once)

	twice := &recorder{}
	ApplyFilter(c, "2023", twice)
	first := append([]string(nil), twice.calls...)
	twice.calls = nil
	ApplyFilter(c, "2023", twice)

	if !reflect.DeepEqual(once.calls, first) || !reflect.DeepEqual(first, twice.calls) {
		t.Fatalf("repeated passes differ: %q / %q / %q", once.calls, first, twice.calls)
	}

	layers := NewLayerSet()
	ApplyFilter(c, "2021", layers)
	ApplyFilter(c, "2021", layers)
	if got := layers.Visible(); len(got) != 2 {
		t.Fatalf("visible after two passes = %v", got)
	}
}

func TestControllerScenario(t *testing.T) {
	c := maunBotswana(t)
	layers := NewLayerSet()
	ctl := NewController(c, layers)

	if ctl.Selection() != All {
		t.Fatalf("initial selection = %q", ctl.Selection())
	}

	steps := []struct {
		token string
		want  []catalog.Handle
	}{
		{"2021", []catalog.Handle{"point:Maun", "region:Botswana"}},
		{"2023", []catalog.Handle{}},
		{"All", []catalog.Handle{"point:Maun", "region:Botswana"}},
	}
	for _, step := range steps {
		ctl.Select(step.token)
		if got := layers.Visible(); !reflect.DeepEqual(got, step.want) {
			t.Fatalf("after selecting %s visible = %v, want %v", step.token, got, step.want)
		}
	}

	if got, want := ctl.Options(), []string{"All", "2021", "2022"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("options = %q, want %q", got, want)
	}
}

func TestRegionStyle(t *testing.T) {
	c := maunBotswana(t)
	bw, _ := c.Lookup("region:Botswana")
	bw.Visual = nil

	got := RegionStyle(bw)
	want := Style{Color: "transparent", FillColor: "lightblue", FillOpacity: 0.4, Weight: 0.5}
	if got != want {
		t.Fatalf("RegionStyle(visited) = %+v, want %+v", got, want)
	}

	unvisited := &catalog.Entity{ID: "Namibia", Kind: catalog.Region, Years: catalog.NormalizeYears()}
	got = RegionStyle(unvisited)
	want = Style{Color: "transparent", FillColor: "transparent", Weight: 0.5}
	if got != want {
		t.Fatalf("RegionStyle(unvisited) = %+v, want %+v", got, want)
	}
}
