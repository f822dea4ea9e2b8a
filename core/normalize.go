package core

import "maps"

// Normalization maps a feature to the feature whose raw value divides it.
// A feature never maps to itself. Only the Coordinator mutates it.
type Normalization struct {
	divisors map[string]string
}

// NewNormalization builds a relation from a baseline table. Empty targets and
// self references are dropped.
func NewNormalization(baseline map[string]string) *Normalization {
	n := &Normalization{divisors: make(map[string]string, len(baseline))}
	for f, g := range baseline {
		if g == "" || g == f {
			continue
		}
		n.divisors[f] = g
	}
	return n
}

// Divisor returns the normalizing feature of f, if any.
func (n *Normalization) Divisor(f string) (string, bool) {
	if n == nil {
		return "", false
	}
	g, ok := n.divisors[f]
	return g, ok
}

// Map returns a copy of the relation.
func (n *Normalization) Map() map[string]string {
	if n == nil {
		return map[string]string{}
	}
	return maps.Clone(n.divisors)
}

// Clone returns an independent copy of the relation.
func (n *Normalization) Clone() *Normalization {
	return &Normalization{divisors: n.Map()}
}

func (n *Normalization) set(target, divisor string) {
	if target == divisor {
		return
	}
	n.divisors[target] = divisor
}

func (n *Normalization) clear(target string) {
	delete(n.divisors, target)
}

// NormalizedValue returns the value of a feature in a project after applying
// its divisor: raw(p,f) / raw(p,g) * 100, rounded to two decimals. A missing
// or zero divisor value yields 0.
func NormalizedValue(m *Matrix, n *Normalization, feature, project string) float64 {
	raw, _ := m.Raw(project, feature)
	g, ok := n.Divisor(feature)
	if !ok {
		return raw
	}
	div, _ := m.Raw(project, g)
	if div == 0 {
		return 0
	}
	return round2(raw / div * 100)
}
