package service

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/ghprofile/profile-api/model"
)

// MaxLanguageShares is the number of shares kept for a repository, Other included
const MaxLanguageShares = 7

type languageBytes struct {
	language string
	bytes    int
}

// AggregateLanguages converts the bytes per language of a repository into percentage shares.
// Shares are ordered by raw byte count, descending, with the language name breaking ties.
// Above MaxLanguageShares the tail is folded into a single Other share whose percent
// is the sum of the folded rounded percents.
// A repository without any byte has no share.
func AggregateLanguages(languages map[string]int, colors ColorResolver) []model.LanguageShare {
	total := 0
	entries := make([]languageBytes, 0, len(languages))

	for language, bytes := range languages {
		total += bytes
		entries = append(entries, languageBytes{language: language, bytes: bytes})
	}

	if total <= 0 {
		return []model.LanguageShare{}
	}

	slices.SortFunc(entries, func(a, b languageBytes) int {
		if c := cmp.Compare(b.bytes, a.bytes); c != 0 {
			return c
		}

		return cmp.Compare(a.language, b.language)
	})

	shares := make([]model.LanguageShare, 0, min(len(entries), MaxLanguageShares))
	otherPercent := 0.0

	for i, entry := range entries {
		percent := formatPercent(float64(entry.bytes) / float64(total) * 100)

		if len(entries) > MaxLanguageShares && i >= MaxLanguageShares-1 {
			// the rounded string is summed, not the raw value
			rounded, _ := strconv.ParseFloat(percent, 64)
			otherPercent += rounded
			continue
		}

		color, _ := colors.Resolve(entry.language)
		shares = append(shares, model.LanguageShare{
			Language: entry.language,
			Percent:  percent,
			Color:    color,
		})
	}

	if len(entries) > MaxLanguageShares {
		shares = append(shares, model.LanguageShare{
			Language: model.OtherLanguage,
			Percent:  formatPercent(otherPercent),
			Color:    model.OtherLanguageColor,
		})
	}

	return shares
}

func formatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', 1, 64)
}
