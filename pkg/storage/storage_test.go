package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "visits.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func changeTypes(changes []Change) []string {
	var out []string
	for _, c := range changes {
		out = append(out, c.ChangeType+" "+c.City)
	}
	return out
}

func TestUpsertPlacesLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	initial := []Place{
		{City: "Maun", Country: "Botswana", Lat: -19.983, Lng: 23.431, Years: []string{"2021", "2022"}},
		{City: "Zug", Country: "Switzerland", Lat: 47.166, Lng: 8.515, Years: []string{"2018"}},
	}
	changes, err := db.UpsertPlaces(ctx, "sheet", initial)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if got, want := changeTypes(changes), []string{"added Maun", "added Zug"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("changes = %q, want %q", got, want)
	}

	changes, err = db.UpsertPlaces(ctx, "sheet", initial)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("re-importing identical places produced changes: %q", changeTypes(changes))
	}

	changes, err = db.UpsertPlaces(ctx, "sheet", []Place{
		{City: "maun ", Country: "Botswana", Lat: -19.983, Lng: 23.431, Years: []string{"2022", "2021", "2023"}},
	})
	if err != nil {
		t.Fatalf("third upsert: %v", err)
	}
	if got, want := changeTypes(changes), []string{"updated maun ", "removed Zug"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("changes = %q, want %q", got, want)
	}

	places, err := db.ListPlaces(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(places) != 1 || !reflect.DeepEqual(places[0].Years, []string{"2021", "2022", "2023"}) {
		t.Fatalf("places = %+v", places)
	}

	recent, err := db.ListRecentChanges(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 4 {
		t.Fatalf("expected 4 logged changes, got %d", len(recent))
	}
}

func TestUpsertPlacesRefusesWipe(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if _, err := db.UpsertPlaces(ctx, "sheet", []Place{{City: "Maun", Lat: 1, Lng: 2, Years: []string{"2021"}}}); err != nil {
		t.Fatal(err)
	}
	_, err := db.UpsertPlaces(ctx, "sheet", nil)
	if !errors.Is(err, ErrAbortingWipe) {
		t.Fatalf("expected ErrAbortingWipe, got %v", err)
	}
	places, _ := db.ListPlaces(ctx, ListOptions{Source: "sheet"})
	if len(places) != 1 {
		t.Fatalf("wipe was not prevented: %+v", places)
	}
}

func TestListPlacesFiltersAndStats(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c, _ := catalog.Build([]catalog.RawPlace{
		{City: "New York", Country: "United States of America", Lat: "40.712", Lng: "-74.006", Years: catalog.Years{"2016, 2013"}},
		{City: "Los Angeles", Country: "United States of America", Lat: "34.055", Lng: "-118.242", Years: catalog.Years{"2013"}},
		{City: "Colombo", Country: "Sri Lanka", Lat: "6.927", Lng: "79.861", Years: catalog.Years{"2024"}},
	}, nil)
	if _, err := db.UpsertPlaces(ctx, "inline", PlacesFromCatalog("inline", c)); err != nil {
		t.Fatal(err)
	}

	byYear, err := db.ListPlaces(ctx, ListOptions{Year: "2013"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byYear) != 2 || byYear[0].City != "New York" || !reflect.DeepEqual(byYear[0].Years, []string{"2013", "2016"}) {
		t.Fatalf("places visited in 2013 = %+v", byYear)
	}

	byCountry, err := db.ListPlaces(ctx, ListOptions{Country: " sri lanka"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCountry) != 1 || byCountry[0].City != "Colombo" {
		t.Fatalf("places in Sri Lanka = %+v", byCountry)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []SourceStats{{Source: "inline", PlaceCount: 3, Countries: 2, FirstYear: "2013", LastYear: "2024"}}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestPlacesFromCatalogStoresRecordNames(t *testing.T) {
	c, _ := catalog.Build([]catalog.RawPlace{
		{City: "Portland", Country: "United States of America", Lat: "45.515", Lng: "-122.678", Years: catalog.Years{"2015"}},
		{City: "Portland", Country: "Jamaica", Lat: "18.1", Lng: "-76.5", Years: catalog.Years{"2019"}},
	}, nil)
	if got := c.Points()[1].ID; got != "Portland #2" {
		t.Fatalf("catalog ID = %q, want suffixed duplicate", got)
	}

	places := PlacesFromCatalog("sheet", c)
	for _, p := range places {
		if p.City != "Portland" {
			t.Fatalf("stored city = %q, want Portland", p.City)
		}
	}

	db := openTestDB(t)
	changes, err := db.UpsertPlaces(context.Background(), "sheet", places)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := changeTypes(changes), []string{"added Portland", "added Portland"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("changes = %q, want %q", got, want)
	}
}
