// Package locale resolves feature display names and interface messages for a language.
package locale

import (
	"sort"

	"github.com/huangsam/leaderboard/internal/contract"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the languages with translated interface messages.
var Supported = []language.Tag{language.English, language.Dutch}

// Message keys for interface text.
const (
	MsgProject   = "Project"
	MsgFeature   = "Feature"
	MsgValue     = "Value"
	MsgLead      = "Lead"
	MsgMean      = "Mean"
	MsgRank      = "Rank"
	MsgScore     = "Score"
	MsgClass     = "Class"
	MsgDivisor   = "Divisor"
	MsgTotal     = "Total score: %s"
	MsgShowing   = "Showing %d cards for %s (mode: %s, order: %s)"
	MsgSpread    = "Spread"
	MsgOutliers  = "Outliers"
	MsgLeadBy    = "Lead by"
	MsgNoneShown = "No cards to show"
)

func init() {
	dutch := map[string]string{
		MsgProject:   "Project",
		MsgFeature:   "Eigenschap",
		MsgValue:     "Waarde",
		MsgLead:      "Leider",
		MsgMean:      "Gemiddelde",
		MsgRank:      "Rang",
		MsgScore:     "Score",
		MsgClass:     "Klasse",
		MsgDivisor:   "Deler",
		MsgTotal:     "Totaalscore: %s",
		MsgShowing:   "%d kaarten voor %s (modus: %s, volgorde: %s)",
		MsgSpread:    "Spreiding",
		MsgOutliers:  "Uitschieters",
		MsgLeadBy:    "Leider",
		MsgNoneShown: "Geen kaarten om te tonen",
	}
	for key, msg := range dutch {
		_ = message.SetString(language.Dutch, key, msg)
	}
}

// Locale implements contract.Labeler over a table of feature descriptions.
type Locale struct {
	tag          language.Tag
	descriptions map[string]string
	printer      *message.Printer
}

var _ contract.Labeler = &Locale{} // Compile-time check

// New picks the best language for want among the interface languages and the
// languages present in descriptions (feature -> language -> text).
func New(want language.Tag, descriptions map[string]map[string]string) *Locale {
	available := availableTags(descriptions)
	matcher := language.NewMatcher(available)
	_, index, confidence := matcher.Match(want)
	tag := available[index]
	if confidence == language.No {
		tag = language.English
	}

	l := &Locale{
		tag:          tag,
		descriptions: make(map[string]string, len(descriptions)),
		printer:      message.NewPrinter(tag),
	}
	base, _ := tag.Base()
	for feature, byLang := range descriptions {
		if text := pick(byLang, tag.String(), base.String()); text != "" {
			l.descriptions[feature] = text
		}
	}
	return l
}

// availableTags returns the interface languages followed by every language
// found in the descriptions, without duplicates. English stays first so it
// is the fallback of the matcher.
func availableTags(descriptions map[string]map[string]string) []language.Tag {
	tags := append([]language.Tag{}, Supported...)
	seen := map[string]bool{}
	for _, t := range tags {
		seen[t.String()] = true
	}
	var extra []string
	for _, byLang := range descriptions {
		for code := range byLang {
			if seen[code] {
				continue
			}
			if _, err := language.Parse(code); err != nil {
				continue
			}
			seen[code] = true
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)
	for _, code := range extra {
		tags = append(tags, language.Make(code))
	}
	return tags
}

// pick returns the description in the first language that has one, then English.
func pick(byLang map[string]string, codes ...string) string {
	for _, code := range append(codes, "en") {
		if text, ok := byLang[code]; ok && text != "" {
			return text
		}
	}
	return ""
}

// Language returns the selected language.
func (l *Locale) Language() language.Tag {
	return l.tag
}

// FeatureName returns the description of a feature, or the feature key when
// no description exists.
func (l *Locale) FeatureName(feature string) string {
	if text, ok := l.descriptions[feature]; ok {
		return text
	}
	return feature
}

// Sprintf formats an interface message in the selected language.
func (l *Locale) Sprintf(key message.Reference, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Identity returns a Locale without descriptions, in English.
func Identity() *Locale {
	return New(language.English, nil)
}
