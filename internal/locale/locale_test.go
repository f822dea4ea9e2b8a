package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

var descriptions = map[string]map[string]string{
	"bugs":  {"en": "Bugs", "nl": "Fouten"},
	"lines": {"en": "Lines of code"},
	"tests": {"de": "Tests (de)", "en": "Tests"},
}

func TestFeatureName(t *testing.T) {
	tests := []struct {
		name     string
		want     language.Tag
		feature  string
		expected string
	}{
		{"english", language.English, "bugs", "Bugs"},
		{"dutch", language.Dutch, "bugs", "Fouten"},
		{"dutch falls back to english", language.Dutch, "lines", "Lines of code"},
		{"regional english", language.AmericanEnglish, "bugs", "Bugs"},
		{"unknown feature uses key", language.English, "velocity", "velocity"},
		{"language only in descriptions", language.German, "tests", "Tests (de)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.want, descriptions)
			assert.Equal(t, tt.expected, l.FeatureName(tt.feature))
		})
	}
}

func TestLanguageFallback(t *testing.T) {
	l := New(language.Japanese, descriptions)
	assert.Equal(t, language.English, l.Language())
	assert.Equal(t, "Bugs", l.FeatureName("bugs"))
}

func TestSprintf(t *testing.T) {
	en := New(language.English, nil)
	nl := New(language.Dutch, nil)

	assert.Equal(t, "Mean", en.Sprintf(MsgMean))
	assert.Equal(t, "Gemiddelde", nl.Sprintf(MsgMean))
	assert.Equal(t, "Total score: 50%", en.Sprintf(MsgTotal, "50%"))
	assert.Equal(t, "Totaalscore: 50%", nl.Sprintf(MsgTotal, "50%"))
}

func TestIdentity(t *testing.T) {
	l := Identity()
	assert.Equal(t, language.English, l.Language())
	assert.Equal(t, "bugs", l.FeatureName("bugs"))
}
