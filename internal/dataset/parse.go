package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/leaderboard/schema"
	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("top level must be a JSON object")

// parseObject validates body and returns its top-level object. Key order of
// the document is kept by gjson, which the matrix relies on.
func parseObject(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return gjson.Result{}, errNotObject
	}
	return root, nil
}

// parseFeatures reads {project: {feature: value}}. Null cells are skipped so
// that they count as missing; numeric strings are accepted.
func parseFeatures(body []byte) ([]schema.MatrixEntry, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	var entries []schema.MatrixEntry
	root.ForEach(func(project, row gjson.Result) bool {
		if !row.IsObject() {
			err = fmt.Errorf("project %q must map to an object of features", project.String())
			return false
		}
		row.ForEach(func(feature, cell gjson.Result) bool {
			var v float64
			v, err = cellValue(cell)
			if errors.Is(err, errSkip) {
				err = nil
				return true
			}
			if err != nil {
				err = fmt.Errorf("project %q feature %q: %w", project.String(), feature.String(), err)
				return false
			}
			entries = append(entries, schema.MatrixEntry{
				Project: project.String(),
				Feature: feature.String(),
				Value:   v,
			})
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no values found")
	}
	return entries, nil
}

var errSkip = errors.New("skip")

func cellValue(cell gjson.Result) (float64, error) {
	switch cell.Type {
	case gjson.Number:
		return cell.Num, nil
	case gjson.Null:
		return 0, errSkip
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(cell.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", cell.Str)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("unsupported value %s", cell.Raw)
	}
}

// parseNormalize reads {feature: divisor}. A null or empty divisor means the
// feature is not normalized.
func parseNormalize(body []byte) (map[string]string, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	root.ForEach(func(feature, divisor gjson.Result) bool {
		switch divisor.Type {
		case gjson.Null:
		case gjson.String:
			if divisor.Str != "" {
				out[feature.String()] = divisor.Str
			}
		default:
			err = fmt.Errorf("divisor of %q must be a feature name or null", feature.String())
		}
		return err == nil
	})
	return out, err
}

// parseLocalization reads feature descriptions keyed by language, either
// under a "descriptions" key or at the top level:
//
//	{"descriptions": {"en": {"feature": "text"}, "nl": {...}}}
//
// The result is keyed by feature, then language.
func parseLocalization(body []byte) (map[string]map[string]string, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	if d := root.Get("descriptions"); d.Exists() {
		root = d
	}
	if !root.IsObject() {
		return nil, errors.New("descriptions must be an object")
	}
	out := make(map[string]map[string]string)
	root.ForEach(func(lang, texts gjson.Result) bool {
		if !texts.IsObject() {
			return true
		}
		texts.ForEach(func(feature, text gjson.Result) bool {
			if text.Type != gjson.String {
				return true
			}
			byLang, ok := out[feature.String()]
			if !ok {
				byLang = make(map[string]string)
				out[feature.String()] = byLang
			}
			byLang[lang.String()] = text.Str
			return true
		})
		return true
	})
	return out, nil
}

// parseLinks reads {project: {feature: {"source": url, "type": kind}}}. A
// plain string is taken as the source.
func parseLinks(body []byte) (map[string]map[string]schema.SourceLink, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]schema.SourceLink)
	root.ForEach(func(project, row gjson.Result) bool {
		if !row.IsObject() {
			return true
		}
		links := make(map[string]schema.SourceLink)
		row.ForEach(func(feature, link gjson.Result) bool {
			switch {
			case link.Type == gjson.String:
				links[feature.String()] = schema.SourceLink{Source: link.Str}
			case link.IsObject():
				links[feature.String()] = schema.SourceLink{
					Source: link.Get("source").String(),
					Type:   link.Get("type").String(),
				}
			}
			return true
		})
		out[project.String()] = links
		return true
	})
	return out, nil
}

// parseGroups reads {feature: [related features]}.
func parseGroups(body []byte) (map[string][]string, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	root.ForEach(func(feature, group gjson.Result) bool {
		if !group.IsArray() {
			err = fmt.Errorf("group of %q must be an array", feature.String())
			return false
		}
		members := []string{}
		for _, m := range group.Array() {
			members = append(members, m.String())
		}
		out[feature.String()] = members
		return true
	})
	return out, err
}
