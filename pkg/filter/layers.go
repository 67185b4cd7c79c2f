package filter

import "github.com/murraystephenson/TravelMap/pkg/catalog"

// LayerSet is an in-memory Surface recording which handles are attached.
// Attaching twice or detaching a missing handle is a no-op. Handles must be
// comparable.
type LayerSet struct {
	order    []catalog.Handle
	attached map[catalog.Handle]bool
}

func NewLayerSet() *LayerSet {
	return &LayerSet{attached: make(map[catalog.Handle]bool)}
}

func (l *LayerSet) Attach(h catalog.Handle) {
	if l.attached[h] {
		return
	}
	l.attached[h] = true
	l.order = append(l.order, h)
}

func (l *LayerSet) Detach(h catalog.Handle) {
	if !l.attached[h] {
		return
	}
	delete(l.attached, h)
	for i, x := range l.order {
		if x == h {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *LayerSet) Has(h catalog.Handle) bool { return l.attached[h] }

// Visible returns the attached handles in the order they were attached.
func (l *LayerSet) Visible() []catalog.Handle {
	out := make([]catalog.Handle, len(l.order))
	copy(out, l.order)
	return out
}
