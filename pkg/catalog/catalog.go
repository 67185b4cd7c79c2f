// Package catalog normalizes place and region records from heterogeneous data
// sources into a uniform list of visitable entities, each carrying the set of
// years it was visited in.
package catalog

import "strconv"

// Catalog is the ordered result of a build: points first, then regions, each
// in input order.
type Catalog struct {
	entities []*Entity
	byKey    map[string]*Entity
}

func newCatalog(capacity int) *Catalog {
	return &Catalog{
		entities: make([]*Entity, 0, capacity),
		byKey:    make(map[string]*Entity, capacity),
	}
}

// add stores e, suffixing its ID when the key is already taken.
func (c *Catalog) add(e *Entity) {
	base := e.ID
	for n := 2; ; n++ {
		if _, taken := c.byKey[e.Key()]; !taken {
			break
		}
		e.ID = base + " #" + strconv.Itoa(n)
	}
	c.entities = append(c.entities, e)
	c.byKey[e.Key()] = e
}

func (c *Catalog) Entities() []*Entity { return c.entities }

func (c *Catalog) Len() int { return len(c.entities) }

func (c *Catalog) Points() []*Entity { return c.ofKind(Point) }

func (c *Catalog) Regions() []*Entity { return c.ofKind(Region) }

func (c *Catalog) ofKind(k Kind) []*Entity {
	var out []*Entity
	for _, e := range c.entities {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) Lookup(key string) (*Entity, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

// Bind attaches the rendering handle for the entity with the given key. It
// reports false when no such entity exists.
func (c *Catalog) Bind(key string, h Handle) bool {
	e, ok := c.byKey[key]
	if !ok {
		return false
	}
	e.Visual = h
	return true
}

// BindAll gives every entity a handle produced by fn.
func (c *Catalog) BindAll(fn func(*Entity) Handle) {
	for _, e := range c.entities {
		e.Visual = fn(e)
	}
}

// Years returns the union of every entity's visit years.
func (c *Catalog) Years() YearSet {
	all := NormalizeYears()
	for _, e := range c.entities {
		all = all.Union(e.Years)
	}
	return all
}
