package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghprofile/profile-api/model"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
)

const (
	repositoriesFixture = "repos.json"
	languagesFixture    = "languages.json"
	eventsFixture       = "events.json"
	licensesFixtureDir  = "licenses"
)

// FixtureSource serves API shaped JSON files from a directory:
//
//	repos.json            list of repositories
//	languages.json        repository name -> language -> bytes
//	licenses/<key>.json   license detail, key is the last segment of the license url
//	events.json           list of activity events
type FixtureSource struct {
	dir string
}

func NewFixtureSource(dir string) *FixtureSource {
	return &FixtureSource{dir: dir}
}

func (s *FixtureSource) ListRepositories(_ context.Context) ([]*github.Repository, error) {
	var repos []*github.Repository
	if err := s.read(repositoriesFixture, &repos); err != nil {
		return nil, err
	}

	return repos, nil
}

// ListLanguages looks the repository up by name, the owner is implied by the fixture set
func (s *FixtureSource) ListLanguages(_ context.Context, _ string, repo string) (map[string]int, error) {
	var languages map[string]map[string]int
	if err := s.read(languagesFixture, &languages); err != nil {
		return nil, err
	}

	repoLanguages, found := languages[repo]
	if !found {
		return nil, fmt.Errorf("%w: no languages for repository %q", model.ErrNotFound, repo)
	}

	return repoLanguages, nil
}

func (s *FixtureSource) GetLicense(_ context.Context, licenseURL string) (*github.License, error) {
	key, err := LicenseKey(licenseURL)
	if err != nil {
		return nil, err
	}

	var license github.License
	if err := s.read(filepath.Join(licensesFixtureDir, key+".json"), &license); err != nil {
		return nil, err
	}

	return &license, nil
}

func (s *FixtureSource) ListEvents(_ context.Context) ([]*github.Event, error) {
	var events []*github.Event
	if err := s.read(eventsFixture, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (s *FixtureSource) read(name string, out any) error {
	fixturePath := filepath.Join(s.dir, name)

	log.WithField("fixture", fixturePath).Debug("reading fixture")

	content, err := os.ReadFile(fixturePath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: fixture %s", model.ErrNotFound, name)
	}

	if err != nil {
		return fmt.Errorf("%w: read fixture %s: %v", model.ErrFetch, name, err)
	}

	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("%w: decode fixture %s: %v", model.ErrFetch, name, err)
	}

	return nil
}
