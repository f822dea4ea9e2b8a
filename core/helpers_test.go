package core

import (
	"github.com/huangsam/leaderboard/schema"
	"golang.org/x/text/language"
)

// entries builds matrix entries from project rows given in load order.
func entries(rows ...row) []schema.MatrixEntry {
	var out []schema.MatrixEntry
	for _, r := range rows {
		for _, c := range r.cells {
			out = append(out, schema.MatrixEntry{Project: r.project, Feature: c.feature, Value: c.value})
		}
	}
	return out
}

type row struct {
	project string
	cells   []cell
}

type cell struct {
	feature string
	value   float64
}

// exampleMatrix is {A:{x:10,y:5}, B:{x:20,y:4}}.
func exampleMatrix() *Matrix {
	return NewMatrix(entries(
		row{"A", []cell{{"x", 10}, {"y", 5}}},
		row{"B", []cell{{"x", 20}, {"y", 4}}},
	))
}

// labeler is a fixed contract.Labeler for tests.
type labeler map[string]string

func (l labeler) FeatureName(f string) string {
	if name, ok := l[f]; ok {
		return name
	}
	return f
}

func (l labeler) Language() language.Tag { return language.English }

// boardDataset has three projects whose load order differs from natural order.
func boardDataset() *Dataset {
	return &Dataset{
		Matrix: NewMatrix(entries(
			row{"proj10", []cell{{"tests", 40}, {"bugs", 12}, {"lines", 8000}}},
			row{"proj2", []cell{{"tests", 25}, {"bugs", 4}, {"lines", 2000}}},
			row{"alpha", []cell{{"tests", 60}, {"bugs", 6}, {"lines", 12000}}},
		)),
		Baseline: map[string]string{"bugs": "lines"},
		Links: map[string]map[string]schema.SourceLink{
			"proj2": {
				"bugs":  {Source: "https://tracker.example.org/proj2", Type: "jira"},
				"lines": {Source: " "},
			},
		},
		Groups: map[string][]string{
			"bugs":  {"bugs", "tests"},
			"tests": {"bugs", "tests"},
			"lines": {"lines"},
		},
	}
}

func boardLabels() labeler {
	return labeler{"tests": "Tests", "bugs": "Bugs", "lines": "Lines of code"}
}

func key(feature, project string) schema.CardKey {
	return schema.CardKey{Feature: feature, Project: project}
}

func keyPtr(feature, project string) *schema.CardKey {
	k := key(feature, project)
	return &k
}
