package core

import (
	"maps"

	"github.com/huangsam/leaderboard/schema"
)

// Arrangement holds the position offset of each card relative to its slot.
// Cards without an entry sit at their slot.
type Arrangement struct {
	positions map[schema.CardKey]schema.Position
}

// NewArrangement returns an empty arrangement.
func NewArrangement() *Arrangement {
	return &Arrangement{positions: make(map[schema.CardKey]schema.Position)}
}

// Get returns the offset of a card.
func (a *Arrangement) Get(key schema.CardKey) schema.Position {
	return a.positions[key]
}

// Snapshot returns a copy of all stored offsets.
func (a *Arrangement) Snapshot() map[schema.CardKey]schema.Position {
	return maps.Clone(a.positions)
}

// Reset discards every stored offset.
func (a *Arrangement) Reset() {
	clear(a.positions)
}

func (a *Arrangement) set(key schema.CardKey, pos schema.Position) {
	if pos == (schema.Position{}) {
		delete(a.positions, key)
		return
	}
	a.positions[key] = pos
}

// swap exchanges the offsets of two cards, each corrected by the distance
// between their slots so both cards land where the other one was drawn.
func (a *Arrangement) swap(drag, drop schema.CardKey, dragSlot, dropSlot schema.Position) {
	dragPos := a.Get(drag)
	dropPos := a.Get(drop)
	a.set(drop, dragPos.Add(dragSlot.Sub(dropSlot)))
	a.set(drag, dropPos.Add(dropSlot.Sub(dragSlot)))
}
