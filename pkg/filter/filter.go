// Package filter decides which catalog entities are visible for a selected
// year and applies that decision to a rendering surface.
package filter

import (
	"strings"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// Selection is the active dropdown value: a year token or All.
type Selection string

// All is the sentinel selection that shows every entity.
const All Selection = "All"

// ParseSelection maps empty input and any casing of "all" to All.
func ParseSelection(token string) Selection {
	token = strings.TrimSpace(token)
	if token == "" || strings.EqualFold(token, string(All)) {
		return All
	}
	return Selection(token)
}

// Surface is the map collaborator that owns the drawable objects.
type Surface interface {
	Attach(h catalog.Handle)
	Detach(h catalog.Handle)
}

// IsVisible is the single visibility rule for points and regions alike.
func IsVisible(e *catalog.Entity, s Selection) bool {
	return s == All || e.Years.Contains(string(s))
}

// ApplyFilter makes exactly one Attach or Detach call per entity that has a
// visual handle, in catalog order. Entities without a handle are skipped.
func ApplyFilter(c *catalog.Catalog, s Selection, surface Surface) {
	for _, e := range c.Entities() {
		if e.Visual == nil {
			continue
		}
		if IsVisible(e, s) {
			surface.Attach(e.Visual)
		} else {
			surface.Detach(e.Visual)
		}
	}
}

// YearOptions returns the dropdown values: All first, then every visited year
// in ascending order.
func YearOptions(c *catalog.Catalog) []string {
	years := c.Years().Sorted()
	return append([]string{string(All)}, years...)
}
