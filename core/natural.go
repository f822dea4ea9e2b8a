package core

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NaturalSort returns a copy of names ordered so that digit runs compare by
// numeric value ("p2" before "p10").
func NaturalSort(names []string) []string {
	out := slices.Clone(names)
	c := collate.New(language.Und, collate.Numeric)
	slices.SortStableFunc(out, func(a, b string) int {
		return c.CompareString(a, b)
	})
	return out
}
