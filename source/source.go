// Package source reads the raw GitHub data behind the dashboard, either from
// static JSON fixtures shaped like the REST API or from the API itself.
package source

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/ghprofile/profile-api/config"
	"github.com/ghprofile/profile-api/model"
	"github.com/google/go-github/v66/github"
	"golang.org/x/time/rate"
)

type Source interface {
	ListRepositories(ctx context.Context) ([]*github.Repository, error)
	ListLanguages(ctx context.Context, owner string, repo string) (map[string]int, error)
	GetLicense(ctx context.Context, licenseURL string) (*github.License, error)
	ListEvents(ctx context.Context) ([]*github.Event, error)
}

// New builds the source selected in configuration
// the rate limiter is only used by the github source and may be nil for fixtures
func New(cfg config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) (Source, error) {
	switch cfg.Source.Kind {
	case config.SourceKindFixtures:
		return NewFixtureSource(cfg.Source.FixturesDir), nil
	case config.SourceKindGithub:
		return NewGithubSource(cfg, githubClient, rateLimiter), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// LicenseKey extracts the license key from its API url
// e.g. https://api.github.com/licenses/mit -> mit
func LicenseKey(licenseURL string) (string, error) {
	u, err := url.Parse(licenseURL)
	if err != nil {
		return "", fmt.Errorf("%w: license url %q: %v", model.ErrInvalidData, licenseURL, err)
	}

	key := path.Base(u.Path)
	if key == "" || key == "." || key == "/" {
		return "", fmt.Errorf("%w: license url %q has no license key", model.ErrInvalidData, licenseURL)
	}

	return key, nil
}
