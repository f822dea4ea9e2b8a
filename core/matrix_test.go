package core

import (
	"testing"

	"github.com/huangsam/leaderboard/schema"
	"github.com/stretchr/testify/assert"
)

func TestNewMatrix(t *testing.T) {
	m := NewMatrix(entries(
		row{"proj10", []cell{{"b", 1}, {"a", 2}}},
		row{"proj2", []cell{{"a", 3}, {"c", 4}}},
		row{"alpha", []cell{{"c", 5}}},
	))

	assert.Equal(t, []string{"proj10", "proj2", "alpha"}, m.Projects())
	assert.Equal(t, []string{"alpha", "proj2", "proj10"}, m.SortedProjects())
	assert.Equal(t, []string{"b", "a", "c"}, m.Features())
	assert.Equal(t, []string{"a", "c", "b"}, m.ProjectFeatures("proj2"))
	assert.Equal(t, 1, m.FeatureIndex("proj2", "c"))
	assert.Equal(t, -1, m.FeatureIndex("proj2", "z"))

	v, ok := m.Raw("proj2", "c")
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)
	v, ok = m.Raw("alpha", "a")
	assert.False(t, ok)
	assert.Zero(t, v)

	assert.True(t, m.HasProject("alpha"))
	assert.False(t, m.HasProject("c"))
	assert.True(t, m.HasFeature("c"))
	assert.False(t, m.HasFeature("alpha"))
	assert.False(t, m.Empty())
}

func TestMissingCells(t *testing.T) {
	m := NewMatrix(entries(
		row{"A", []cell{{"x", 1}, {"y", 2}}},
		row{"B", []cell{{"y", 3}}},
	))
	assert.Equal(t, []schema.MatrixEntry{{Project: "B", Feature: "x"}}, m.MissingCells())
	assert.Empty(t, exampleMatrix().MissingCells())
}

func TestEmptyMatrix(t *testing.T) {
	m := NewMatrix(nil)
	assert.True(t, m.Empty())
	assert.Empty(t, m.Projects())
	assert.Empty(t, m.SortedProjects())
}

func TestNaturalSort(t *testing.T) {
	in := []string{"proj10", "Proj1", "proj2", "alpha", "beta9", "beta10"}
	assert.Equal(t, []string{"alpha", "beta9", "beta10", "Proj1", "proj2", "proj10"}, NaturalSort(in))
	assert.Equal(t, "proj10", in[0], "input is not modified")
}

func TestNewNormalization(t *testing.T) {
	n := NewNormalization(map[string]string{"x": "y", "y": "", "z": "z"})
	assert.Equal(t, map[string]string{"x": "y"}, n.Map())

	g, ok := n.Divisor("x")
	assert.True(t, ok)
	assert.Equal(t, "y", g)
	_, ok = n.Divisor("z")
	assert.False(t, ok)

	var nilRelation *Normalization
	_, ok = nilRelation.Divisor("x")
	assert.False(t, ok)
	assert.Empty(t, nilRelation.Map())
}

func TestNormalizationClone(t *testing.T) {
	n := NewNormalization(map[string]string{"x": "y"})
	c := n.Clone()
	c.set("y", "x")
	c.clear("x")
	assert.Equal(t, map[string]string{"x": "y"}, n.Map())
	assert.Equal(t, map[string]string{"y": "x"}, c.Map())

	c.set("y", "y")
	assert.Equal(t, "x", c.Map()["y"], "self reference is refused")
}

func TestNormalizedValue(t *testing.T) {
	m := NewMatrix(entries(
		row{"A", []cell{{"x", 10}, {"y", 5}, {"z", 0}}},
		row{"B", []cell{{"x", 20}, {"y", 3}}},
	))
	tests := []struct {
		name     string
		relation map[string]string
		feature  string
		project  string
		expected float64
	}{
		{"raw value without divisor", nil, "x", "A", 10},
		{"divided and scaled", map[string]string{"x": "y"}, "x", "A", 200},
		{"rounded to two decimals", map[string]string{"x": "y"}, "x", "B", 666.67},
		{"zero divisor", map[string]string{"x": "z"}, "x", "A", 0},
		{"missing divisor cell", map[string]string{"x": "z"}, "x", "B", 0},
		{"missing raw cell", nil, "z", "B", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalization(tt.relation)
			assert.Equal(t, tt.expected, NormalizedValue(m, n, tt.feature, tt.project))
		})
	}
}
