// Package tabs groups extracted snippets that share a tab label into one
// tabbed presentation unit.
//
// An Aggregator is scoped to one document render pass. Create a fresh one per
// document; it is not safe for concurrent use and must never be shared
// between documents.
package tabs

import "github.com/mvp-joe/docsnip/internal/snippet"

// Tab is one pane of a unit.
type Tab struct {
	Label string
	Block snippet.Block
}

// Unit is what a directive contributes to the document: either a standalone
// block (Tabbed false, exactly one Tab with an empty label) or a tab group.
type Unit struct {
	Label  string
	Tabbed bool
	Tabs   []Tab
}

// Aggregator collects units in the order their first directive was seen.
type Aggregator struct {
	units  []*Unit
	groups map[string]int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{groups: make(map[string]int)}
}

// Add records block for req and returns the slot of the unit it belongs to.
// fresh is true when the call created the unit, meaning the caller should
// place the unit at this directive's position; later members of an existing
// group report fresh false and contribute nothing at their own position.
func (a *Aggregator) Add(req snippet.Request, block snippet.Block) (slot int, fresh bool) {
	if !req.Tabbed() {
		a.units = append(a.units, &Unit{Tabs: []Tab{{Block: block}}})
		return len(a.units) - 1, true
	}

	if slot, ok := a.groups[req.TabLabel]; ok {
		u := a.units[slot]
		u.Tabs = append(u.Tabs, Tab{Label: req.TabLabel, Block: block})
		return slot, false
	}

	a.units = append(a.units, &Unit{
		Label:  req.TabLabel,
		Tabbed: true,
		Tabs:   []Tab{{Label: req.TabLabel, Block: block}},
	})
	slot = len(a.units) - 1
	a.groups[req.TabLabel] = slot
	return slot, true
}

// Units finalizes the pass and returns every unit in slot order. A group
// with a single member is still Tabbed.
func (a *Aggregator) Units() []Unit {
	out := make([]Unit, len(a.units))
	for i, u := range a.units {
		out[i] = Unit{
			Label:  u.Label,
			Tabbed: u.Tabbed,
			Tabs:   append([]Tab(nil), u.Tabs...),
		}
	}
	return out
}
