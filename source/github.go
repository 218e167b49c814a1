package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghprofile/profile-api/config"
	"github.com/ghprofile/profile-api/model"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// GithubSource reads the profile of a single user from the GitHub REST API.
// Every request consumes one token of the local rate limiter, which mirrors
// the GitHub core limit (60/hour anonymous, 5000/hour with a token).
type GithubSource struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	username          string
}

func NewGithubSource(cfg config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) *GithubSource {
	if rateLimiter == nil {
		rateLimiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &GithubSource{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		username:          cfg.Github.Username,
	}
}

// NewRateLimiter loads the current rate limits from github and builds a local limiter
// already consuming the requests made elsewhere with the same credentials
func NewRateLimiter(ctx context.Context, githubClient *github.Client) (*rate.Limiter, error) {
	log.Debug("loading current rate limit from github")

	rateLimits, _, err := githubClient.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load github rate limits: %v", model.ErrFetch, err)
	}

	if rateLimits == nil || rateLimits.Core == nil {
		return nil, fmt.Errorf("%w: github returned no core rate limit", model.ErrInvalidData)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	rateLimiter := rate.NewLimiter(rate.Every(time.Hour/time.Duration(max(rateLimits.Core.Limit, 1))), rateLimits.Core.Limit)

	if !rateLimiter.AllowN(time.Now(), rateLimits.Core.Limit-rateLimits.Core.Remaining) {
		return nil, model.ErrRateLimiter
	}

	return rateLimiter, nil
}

func (s *GithubSource) ListRepositories(ctx context.Context) ([]*github.Repository, error) {
	if err := s.allow(); err != nil {
		return nil, err
	}

	log.WithField("username", s.username).Info("fetch repositories from github")

	repos, _, err := s.githubClient.Repositories.ListByUser(ctx, s.username, &github.RepositoryListByUserOptions{
		Type: "owner",
		Sort: "updated",
		ListOptions: github.ListOptions{
			Page:    1,
			PerPage: 100,
		},
	})

	if err != nil {
		return nil, s.handleRequestError(err)
	}

	return repos, nil
}

func (s *GithubSource) ListLanguages(ctx context.Context, owner string, repo string) (map[string]int, error) {
	if err := s.allow(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"owner":      owner,
		"repository": repo,
	}).Debug("fetch languages for repository")

	languages, _, err := s.githubClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, s.handleRequestError(err)
	}

	return languages, nil
}

func (s *GithubSource) GetLicense(ctx context.Context, licenseURL string) (*github.License, error) {
	key, err := LicenseKey(licenseURL)
	if err != nil {
		return nil, err
	}

	if err := s.allow(); err != nil {
		return nil, err
	}

	license, _, err := s.githubClient.Licenses.Get(ctx, key)
	if err != nil {
		return nil, s.handleRequestError(err)
	}

	return license, nil
}

func (s *GithubSource) ListEvents(ctx context.Context) ([]*github.Event, error) {
	if err := s.allow(); err != nil {
		return nil, err
	}

	log.WithField("username", s.username).Info("fetch activity events from github")

	events, _, err := s.githubClient.Activity.ListEventsPerformedByUser(ctx, s.username, false, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, s.handleRequestError(err)
	}

	return events, nil
}

func (s *GithubSource) allow() error {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.ErrRateLimitReached
	}

	return nil
}

// handleRequestError maps github errors to the api errors
// a github rate limit error drains the local rate limiter to keep it in sync with github
func (s *GithubSource) handleRequestError(err error) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if !s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst()) {
			return model.ErrRateLimiter
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.ErrRateLimitReached
	}

	var responseErr *github.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil && responseErr.Response.StatusCode == 404 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, responseErr.Message)
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return fmt.Errorf("%w: %v", model.ErrFetch, err)
}
