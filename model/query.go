package model

import "strings"

// RepositoryQuery filters the repository listing, all filters are optional
type RepositoryQuery struct {
	Language   string `form:"language"`
	License    string `form:"license"`
	Visibility string `form:"visibility"`
	Archived   *bool  `form:"archived"`
}

// Matches reports whether the enriched repository satisfies every filter set
// language and license comparisons are case insensitive, license matches the SPDX identifier
func (params RepositoryQuery) Matches(r RepositoryRecord) bool {
	if params.Visibility != "" && !strings.EqualFold(params.Visibility, r.Visibility) {
		return false
	}

	if params.Archived != nil && *params.Archived != r.Archived {
		return false
	}

	if params.License != "" {
		if r.License == nil || !strings.EqualFold(params.License, r.License.SPDXID) {
			return false
		}
	}

	if params.Language != "" {
		found := false

		for _, share := range r.Languages {
			if strings.EqualFold(params.Language, share.Language) {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// Filter keeps the repositories matching the query, in order
func (params RepositoryQuery) Filter(repos []RepositoryRecord) []RepositoryRecord {
	filtered := make([]RepositoryRecord, 0, len(repos))

	for _, r := range repos {
		if params.Matches(r) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}
