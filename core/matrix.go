package core

import (
	"slices"

	"github.com/huangsam/leaderboard/schema"
)

// Matrix is the immutable table of raw values per project and feature.
// Projects keep their load order, which breaks ties in ranks and lead values.
type Matrix struct {
	projects []string
	sorted   []string
	features []string
	order    map[string][]string
	values   map[string]map[string]float64
}

// NewMatrix builds a Matrix from loaded entries. The feature set is the union
// of all project features in first-seen order; absent cells read as zero.
func NewMatrix(entries []schema.MatrixEntry) *Matrix {
	m := &Matrix{
		order:  make(map[string][]string),
		values: make(map[string]map[string]float64),
	}
	seenFeature := make(map[string]struct{})
	for _, e := range entries {
		row, ok := m.values[e.Project]
		if !ok {
			row = make(map[string]float64)
			m.values[e.Project] = row
			m.projects = append(m.projects, e.Project)
		}
		if _, dup := row[e.Feature]; !dup {
			m.order[e.Project] = append(m.order[e.Project], e.Feature)
		}
		row[e.Feature] = e.Value
		if _, ok := seenFeature[e.Feature]; !ok {
			seenFeature[e.Feature] = struct{}{}
			m.features = append(m.features, e.Feature)
		}
	}
	m.sorted = NaturalSort(m.projects)
	return m
}

// Projects returns the projects in load order.
func (m *Matrix) Projects() []string {
	return slices.Clone(m.projects)
}

// SortedProjects returns the projects in natural order.
func (m *Matrix) SortedProjects() []string {
	return slices.Clone(m.sorted)
}

// Features returns every feature in first-seen order.
func (m *Matrix) Features() []string {
	return slices.Clone(m.features)
}

// ProjectFeatures returns the features of a project in its own order.
// Features the project lacks are appended at the end.
func (m *Matrix) ProjectFeatures(project string) []string {
	own := m.order[project]
	out := slices.Clone(own)
	if len(own) == len(m.features) {
		return out
	}
	for _, f := range m.features {
		if !slices.Contains(own, f) {
			out = append(out, f)
		}
	}
	return out
}

// FeatureIndex returns the position of a feature in a project's own order, or -1.
func (m *Matrix) FeatureIndex(project, feature string) int {
	return slices.Index(m.ProjectFeatures(project), feature)
}

// Raw returns the raw value of a cell and whether it was present.
func (m *Matrix) Raw(project, feature string) (float64, bool) {
	v, ok := m.values[project][feature]
	return v, ok
}

// HasProject reports whether the project is part of the matrix.
func (m *Matrix) HasProject(project string) bool {
	_, ok := m.values[project]
	return ok
}

// HasFeature reports whether any project carries the feature.
func (m *Matrix) HasFeature(feature string) bool {
	return slices.Contains(m.features, feature)
}

// Empty reports whether the matrix has no values.
func (m *Matrix) Empty() bool {
	return len(m.projects) == 0 || len(m.features) == 0
}

// MissingCells lists the (project, feature) cells that are absent.
func (m *Matrix) MissingCells() []schema.MatrixEntry {
	var missing []schema.MatrixEntry
	for _, p := range m.projects {
		for _, f := range m.features {
			if _, ok := m.values[p][f]; !ok {
				missing = append(missing, schema.MatrixEntry{Project: p, Feature: f})
			}
		}
	}
	return missing
}
