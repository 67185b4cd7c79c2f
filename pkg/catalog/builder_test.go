package catalog

import (
	"errors"
	"reflect"
	"testing"

	geojson "github.com/paulmach/go.geojson"
)

func place(city, country, lat, lng string, years ...string) RawPlace {
	return RawPlace{City: city, Country: country, Lat: lat, Lng: lng, Years: Years(years)}
}

func ids(entities []*Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func TestBuildPreservesOrderAndDropsMalformed(t *testing.T) {
	places := []RawPlace{
		place("Cape Town", "South Africa", "-33.918", "18.423", "2020"),
		place("Nowhere", "Botswana", "not-a-number", "23.4", "2021"),
		place("Maun", "Botswana", " -19.983 ", "23.431", "2021, 2022"),
	}
	places[1].Source = "sheet"
	places[1].Line = 3

	c, report := Build(places, nil)

	if got, want := ids(c.Entities()), []string{"Cape Town", "Maun"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("entities = %q, want %q", got, want)
	}
	if n := report.Count(MalformedCoordinate); n != 1 {
		t.Fatalf("expected 1 malformed coordinate issue, got %d", n)
	}
	issue := report.Issues[0]
	if issue.Record != "Nowhere" || issue.Source != "sheet" || issue.Line != 3 {
		t.Fatalf("unexpected issue %+v", issue)
	}
	if !errors.Is(issue, ErrMalformedCoordinate) {
		t.Fatalf("issue %v does not wrap ErrMalformedCoordinate", issue)
	}
	maun, ok := c.Lookup("point:Maun")
	if !ok {
		t.Fatal("Maun missing")
	}
	if maun.Lat != -19.983 || maun.Lng != 23.431 {
		t.Fatalf("Maun coordinates = %v,%v", maun.Lat, maun.Lng)
	}
	if got := maun.Years.Sorted(); !reflect.DeepEqual(got, []string{"2021", "2022"}) {
		t.Fatalf("Maun years = %q", got)
	}
}

func TestBuildRejectsOutOfRangeCoordinates(t *testing.T) {
	c, report := Build([]RawPlace{
		place("North", "", "91", "0", "2020"),
		place("East", "", "0", "181", "2020"),
		place("Empty", "", "", "0", "2020"),
		place("Fine", "", "0", "0", "2020"),
	}, nil)
	if got := ids(c.Entities()); !reflect.DeepEqual(got, []string{"Fine"}) {
		t.Fatalf("entities = %q", got)
	}
	if n := report.Count(MalformedCoordinate); n != 3 {
		t.Fatalf("expected 3 malformed issues, got %d", n)
	}
	if len(report.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %v", report.Errors())
	}
}

func TestBuildRegionYearsFromPlaces(t *testing.T) {
	places := []RawPlace{
		place("Maun", "Botswana", "-19.983", "23.431", "2020", "2021"),
		place("Gaborone", "botswana ", "-24.628", "25.923", "2023"),
		place("Cape Town", "South Africa", "-33.918", "18.423", "1987"),
	}
	regions := []RawRegion{
		{Name: "Botswana"},
		{Name: " South Africa ", Years: Years{"2019"}},
		{Name: "Namibia"},
	}

	c, report := Build(places, regions)

	if got, want := ids(c.Entities()), []string{"Maun", "Gaborone", "Cape Town", "Botswana", "South Africa", "Namibia"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("entities = %q, want %q", got, want)
	}
	bw, _ := c.Lookup("region:Botswana")
	if got := bw.Years.Sorted(); !reflect.DeepEqual(got, []string{"2020", "2021", "2023"}) {
		t.Fatalf("Botswana years = %q", got)
	}
	za, _ := c.Lookup("region:South Africa")
	if got := za.Years.Sorted(); !reflect.DeepEqual(got, []string{"1987", "2019"}) {
		t.Fatalf("South Africa years = %q", got)
	}
	na, ok := c.Lookup("region:Namibia")
	if !ok || na.Visited() {
		t.Fatalf("Namibia should be present and unvisited: %+v", na)
	}
	if report.Count(UnmatchedRegionName) != 1 {
		t.Fatalf("expected one unmatched region notice, got %+v", report.Issues)
	}
	if len(report.Errors()) != 0 {
		t.Fatalf("unmatched regions are not errors: %v", report.Errors())
	}
}

func TestBuildExactMatching(t *testing.T) {
	places := []RawPlace{place("Cape Town", "south africa", "-33.9", "18.4", "2020")}
	regions := []RawRegion{{Name: " South Africa "}}

	c, _ := (&Builder{Mode: Exact}).Build(places, regions)
	if c.Regions()[0].Visited() {
		t.Fatal("exact mode matched a differently cased name")
	}

	c, _ = (&Builder{Mode: CaseInsensitiveTrimmed}).Build(places, regions)
	if !c.Regions()[0].Visited() {
		t.Fatal("case-insensitive mode did not match ' South Africa ' with 'south africa'")
	}
}

func TestBuildDuplicateNames(t *testing.T) {
	c, _ := Build([]RawPlace{
		place("Portland", "United States of America", "45.515", "-122.678", "2016"),
		place("Portland", "United States of America", "43.661", "-70.255", "2019"),
	}, []RawRegion{{Name: "Portland"}})
	want := []string{"point:Portland", "point:Portland #2", "region:Portland"}
	var got []string
	for _, e := range c.Entities() {
		got = append(got, e.Key())
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %q, want %q", got, want)
	}
}

func TestBuildJoinsVisitedCountriesToPolygons(t *testing.T) {
	poly := geojson.NewPolygonGeometry([][][]float64{{{-141, 60}, {-52, 60}, {-52, 45}, {-141, 45}, {-141, 60}}})
	regions := []RawRegion{
		{Name: "canada", Years: Years{"2019, 2020"}, Source: "countries.json"},
		{Name: " Canada ", Geometry: poly, Source: "world.geojson"},
		{Name: "Peru", Geometry: poly},
	}

	c, report := Build(nil, regions)
	if got, want := ids(c.Regions()), []string{"Canada", "Peru"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("regions = %q, want %q", got, want)
	}
	canada, ok := c.Lookup("region:Canada")
	if !ok || canada.Geometry != poly {
		t.Fatalf("Canada lost its polygon: %+v", canada)
	}
	if got, want := canada.Years.Sorted(), []string{"2019", "2020"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Canada years = %q, want %q", got, want)
	}
	if n := report.Count(UnmatchedRegionName); n != 1 {
		t.Fatalf("expected only Peru unmatched, got %d issues", n)
	}

	c, _ = (&Builder{Mode: Exact}).Build(nil, regions)
	if got := len(c.Regions()); got != 3 {
		t.Fatalf("exact matching should keep differently spelled names apart, got %d regions", got)
	}
}

func TestBindAndPopup(t *testing.T) {
	c, _ := Build([]RawPlace{place("Zug", "Switzerland", "47.166", "8.515", "2018")}, []RawRegion{{Name: "Switzerland"}})
	if !c.Bind("point:Zug", "marker-1") {
		t.Fatal("Bind returned false for an existing key")
	}
	if c.Bind("point:Bern", "marker-2") {
		t.Fatal("Bind returned true for a missing key")
	}
	zug, _ := c.Lookup("point:Zug")
	if zug.Visual != "marker-1" {
		t.Fatalf("visual = %v", zug.Visual)
	}
	if got, want := zug.Popup(), "📍 Zug, Switzerland<br>Visited: 2018"; got != want {
		t.Fatalf("popup = %q, want %q", got, want)
	}
	ch, _ := c.Lookup("region:Switzerland")
	if got, want := ch.Popup(), "Switzerland<br>Visited: 2018"; got != want {
		t.Fatalf("popup = %q, want %q", got, want)
	}
}

func TestParseMatchMode(t *testing.T) {
	for in, want := range map[string]MatchMode{"": CaseInsensitiveTrimmed, "exact": Exact, "CI": CaseInsensitiveTrimmed} {
		got, err := ParseMatchMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMatchMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMatchMode("fuzzy"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
