package model

import "time"

// OtherLanguage is the synthetic share aggregating the long tail of languages
const (
	OtherLanguage      = "Other"
	OtherLanguageColor = "#ededed"
)

type Owner struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

type LicenseRecord struct {
	Name        string `json:"name"`
	SPDXID      string `json:"spdx_id"`
	URL         string `json:"url"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
}

type LanguageShare struct {
	Language string `json:"language"`
	Percent  string `json:"percent"` // one fractional digit, e.g. "42.5"
	Color    string `json:"color"`
}

type RepositoryRecord struct {
	Name        string          `json:"name"`
	Owner       Owner           `json:"owner"`
	HTMLURL     string          `json:"html_url"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Archived    bool            `json:"archived"`
	Visibility  string          `json:"visibility"`
	License     *LicenseRecord  `json:"license"`
	Languages   []LanguageShare `json:"languages_percentages"`

	// only used to resolve the license, the record carries the resolved one
	LicenseURL string `json:"-"`
}

// RepositoryResult holds the outcome of one repository enrichment
// a failed enrichment keeps the base record so callers can still report it
type RepositoryResult struct {
	Repository RepositoryRecord
	Err        error
}

type RepositoryFailure struct {
	Name string `json:"name"`
	APIError
}

type RepositoryListing struct {
	Repositories []RepositoryRecord  `json:"repositories"`
	Failures     []RepositoryFailure `json:"failures"`
}

// NewRepositoryListing splits enrichment results into rendered repositories and failures
// order of the input is kept for both slices
func NewRepositoryListing(results []RepositoryResult) RepositoryListing {
	listing := RepositoryListing{
		Repositories: make([]RepositoryRecord, 0, len(results)),
		Failures:     make([]RepositoryFailure, 0),
	}

	for _, r := range results {
		if r.Err != nil {
			listing.Failures = append(listing.Failures, RepositoryFailure{
				Name:     r.Repository.Name,
				APIError: NewAPIError(r.Err),
			})

			continue
		}

		listing.Repositories = append(listing.Repositories, r.Repository)
	}

	return listing
}
