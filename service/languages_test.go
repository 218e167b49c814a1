package service

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ghprofile/profile-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColors = ColorTable{
	"TypeScript": "#3178c6",
	"CSS":        "#563d7c",
	"HTML":       "#e34c26",
	"JavaScript": "#f1e05a",
	"C++":        "#f34b7d",
	"Python":     "#3572A5",
	"C":          "#555555",
	"CMake":      "#DA3434",
	"Shell":      "#89e051",
	"Makefile":   "#427819",
}

func sumPercents(t *testing.T, shares []model.LanguageShare) float64 {
	t.Helper()

	sum := 0.0
	for _, share := range shares {
		percent, err := strconv.ParseFloat(share.Percent, 64)
		require.NoError(t, err)
		sum += percent
	}

	return sum
}

func TestAggregateLanguages(t *testing.T) {
	tests := []struct {
		name      string
		languages map[string]int
		expected  []model.LanguageShare
	}{
		{
			name: "Four languages ordered by bytes",
			languages: map[string]int{
				"CSS":        20113,
				"JavaScript": 1022,
				"TypeScript": 48211,
				"HTML":       1890,
			},
			expected: []model.LanguageShare{
				{Language: "TypeScript", Percent: "67.7", Color: "#3178c6"},
				{Language: "CSS", Percent: "28.2", Color: "#563d7c"},
				{Language: "HTML", Percent: "2.7", Color: "#e34c26"},
				{Language: "JavaScript", Percent: "1.4", Color: "#f1e05a"},
			},
		},
		{
			name: "Ten languages collapse into Other",
			languages: map[string]int{
				"C++":        180544,
				"Python":     40211,
				"C":          12004,
				"CMake":      5310,
				"Shell":      2100,
				"Makefile":   1200,
				"Dockerfile": 640,
				"Batchfile":  310,
				"Lua":        120,
				"Vim Script": 45,
			},
			expected: []model.LanguageShare{
				{Language: "C++", Percent: "74.5", Color: "#f34b7d"},
				{Language: "Python", Percent: "16.6", Color: "#3572A5"},
				{Language: "C", Percent: "5.0", Color: "#555555"},
				{Language: "CMake", Percent: "2.2", Color: "#DA3434"},
				{Language: "Shell", Percent: "0.9", Color: "#89e051"},
				{Language: "Makefile", Percent: "0.5", Color: "#427819"},
				{Language: "Other", Percent: "0.4", Color: "#ededed"},
			},
		},
		{
			name: "Equal bytes ordered by name",
			languages: map[string]int{
				"HTML": 50,
				"CSS":  50,
			},
			expected: []model.LanguageShare{
				{Language: "CSS", Percent: "50.0", Color: "#563d7c"},
				{Language: "HTML", Percent: "50.0", Color: "#e34c26"},
			},
		},
		{
			name:      "Zero bytes yields no share",
			languages: map[string]int{"Go": 0},
			expected:  []model.LanguageShare{},
		},
		{
			name:      "No language",
			languages: nil,
			expected:  []model.LanguageShare{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AggregateLanguages(tt.languages, testColors))
		})
	}
}

func TestAggregateLanguagesExactlySevenKeepsAll(t *testing.T) {
	languages := map[string]int{"A": 70, "B": 60, "C": 50, "D": 40, "E": 30, "F": 20, "G": 10}

	shares := AggregateLanguages(languages, ColorTable{})

	require.Len(t, shares, 7)
	assert.Equal(t, "G", shares[6].Language)
	assert.InDelta(t, 100.0, sumPercents(t, shares), 0.1001)
}

func TestAggregateLanguagesSumsToHundred(t *testing.T) {
	for n := 1; n <= 12; n++ {
		languages := make(map[string]int, n)
		for i := 0; i < n; i++ {
			languages["lang"+strconv.Itoa(i)] = (i + 1) * 997
		}

		shares := AggregateLanguages(languages, ColorTable{})

		require.Len(t, shares, min(n, MaxLanguageShares))
		// each kept rounded percent is at most 0.05 away from its raw value
		assert.InDelta(t, 100.0, sumPercents(t, shares), 0.05*float64(n)+1e-9, "%d languages", n)
	}
}

func TestAggregateLanguagesIsIdempotent(t *testing.T) {
	languages := map[string]int{"Go": 300, "Rust": 300, "Zig": 300, "C": 300, "Lua": 5, "Nim": 5, "Odin": 5, "V": 5}

	first := AggregateLanguages(languages, testColors)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, AggregateLanguages(languages, testColors))
	}
}

func TestAggregateLanguagesFallbackColor(t *testing.T) {
	shares := AggregateLanguages(map[string]int{"Brainfuck": 10}, WithFallback(testColors, "#cccccc"))

	require.Len(t, shares, 1)
	assert.Equal(t, "#cccccc", shares[0].Color)
}

func TestLoadColorTable(t *testing.T) {
	table, err := LoadColorTable(filepath.Join("..", "fixtures", "colors.json"))
	require.NoError(t, err)

	color, found := table.Resolve("Go")
	assert.True(t, found)
	assert.Equal(t, "#00ADD8", color)

	_, found = table.Resolve("COBOL")
	assert.False(t, found)

	_, err = LoadColorTable("missing.json")
	assert.ErrorIs(t, err, model.ErrFetch)
}
