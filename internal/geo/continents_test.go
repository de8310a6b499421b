package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableClassifierContinent(t *testing.T) {
	c := NewTableClassifier()

	tests := []struct {
		name     string
		country  string
		expected string
	}{
		{"plain name", "Senegal", "Africa"},
		{"lowercase", "senegal", "Africa"},
		{"surrounding whitespace", "  India  ", "Asia"},
		{"official long form", "Russian Federation", "Europe"},
		{"common abbreviation", "USA", "North America"},
		{"punctuated variant", "Cote d'Ivoire", "Africa"},
		{"hyphenated name", "Guinea-Bissau", "Africa"},
		{"oceania country", "Fiji", "Oceania"},
		{"south america", "Brazil", "South America"},
		{"unknown name", "Atlantis", Unclassified},
		{"empty string", "", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Continent(tt.country))
		})
	}
}

func TestClassifierNeverReturnsEmpty(t *testing.T) {
	c := NewTableClassifier()

	for _, name := range []string{"", "  ", "???", "Neverland", "Germany"} {
		assert.NotEmpty(t, c.Continent(name), "continent for %q must never be empty", name)
	}
}

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Senegal", "senegal"},
		{"  United   States ", "united states"},
		{"Cote d'Ivoire", "cote divoire"},
		{"GUINEA-BISSAU", "guinea bissau"},
		{"St. Lucia", "st lucia"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeCountry(tt.in))
	}
}

func TestTableVersionExposed(t *testing.T) {
	c := NewTableClassifier()
	assert.Equal(t, TableVersion, c.Version())
}
