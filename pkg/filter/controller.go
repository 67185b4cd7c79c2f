package filter

import "github.com/murraystephenson/TravelMap/pkg/catalog"

// Controller owns the current selection for one ready catalog. Every Select
// runs a full ApplyFilter pass; there is no diffing against the previous
// selection. A Controller is not safe for concurrent use.
type Controller struct {
	catalog   *catalog.Catalog
	surface   Surface
	selection Selection
}

// NewController wires the filter to a built catalog and applies All.
func NewController(c *catalog.Catalog, surface Surface) *Controller {
	ctl := &Controller{catalog: c, surface: surface}
	ctl.Select(string(All))
	return ctl
}

func (c *Controller) Select(token string) Selection {
	c.selection = ParseSelection(token)
	ApplyFilter(c.catalog, c.selection, c.surface)
	return c.selection
}

func (c *Controller) Selection() Selection { return c.selection }

func (c *Controller) Options() []string { return YearOptions(c.catalog) }
