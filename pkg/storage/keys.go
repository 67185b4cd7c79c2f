package storage

import (
	"strings"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// identityKey matches a place across imports regardless of case or padding.
func identityKey(city, country string) string {
	return normalizeName(city) + "|" + normalizeName(country)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func yearsKey(years []string) string {
	sorted := append([]string(nil), years...)
	catalog.SortYears(sorted)
	return strings.Join(sorted, ",")
}
