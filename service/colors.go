package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ghprofile/profile-api/model"
)

type ColorResolver interface {
	Resolve(language string) (string, bool)
}

// ColorTable maps a language name to its display color, e.g. "Go" -> "#00ADD8"
type ColorTable map[string]string

func (t ColorTable) Resolve(language string) (string, bool) {
	color, found := t[language]
	return color, found
}

// LoadColorTable reads a language -> hex color JSON object
func LoadColorTable(path string) (ColorTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read color table: %v", model.ErrFetch, err)
	}

	var table ColorTable
	if err := json.Unmarshal(content, &table); err != nil {
		return nil, fmt.Errorf("%w: decode color table: %v", model.ErrInvalidData, err)
	}

	return table, nil
}

type fallbackColorResolver struct {
	resolver ColorResolver
	fallback string
}

// WithFallback resolves unknown languages to a fixed color instead of none
func WithFallback(resolver ColorResolver, fallback string) ColorResolver {
	return fallbackColorResolver{resolver: resolver, fallback: fallback}
}

func (r fallbackColorResolver) Resolve(language string) (string, bool) {
	if color, found := r.resolver.Resolve(language); found {
		return color, true
	}

	return r.fallback, false
}
