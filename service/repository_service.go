package service

import (
	"context"
	"fmt"

	"github.com/ghprofile/profile-api/cache"
	"github.com/ghprofile/profile-api/config"
	"github.com/ghprofile/profile-api/model"
	"github.com/ghprofile/profile-api/source"
	"github.com/google/go-github/v66/github"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

const repositoriesQueryKey = "repositories"

type RepositoryService interface {
	FetchRepositories(ctx context.Context) ([]model.RepositoryResult, error)
	FetchRepository(ctx context.Context, name string) (model.RepositoryRecord, error)
	EnrichRepositories(ctx context.Context, repos []model.RepositoryResult) []model.RepositoryResult
	EnrichSingleRepository(ctx context.Context, r model.RepositoryRecord) (model.RepositoryRecord, error)
}

type repositoryService struct {
	source          source.Source
	colors          ColorResolver
	licenseResolver LicenseResolver
	cache           *cache.QueryCache
	config          config.Config
}

func NewRepositoryService(config config.Config, src source.Source, colors ColorResolver, licenseResolver LicenseResolver, queryCache *cache.QueryCache) RepositoryService {
	return repositoryService{
		source:          src,
		colors:          colors,
		licenseResolver: licenseResolver,
		cache:           queryCache,
		config:          config,
	}
}

// FetchRepositories lists the repositories and enriches each of them with languages and license.
// Only the listing itself can fail the call, enrichment failures are kept per repository.
func (s repositoryService) FetchRepositories(ctx context.Context) ([]model.RepositoryResult, error) {
	repos, err := cache.Fetch(ctx, s.cache, repositoriesQueryKey, s.listRepositories)
	if err != nil {
		log.WithError(err).Error("unable to list repositories")
		return []model.RepositoryResult{}, err
	}

	return s.EnrichRepositories(ctx, repos), nil
}

// FetchRepository returns a single enriched repository by name
func (s repositoryService) FetchRepository(ctx context.Context, name string) (model.RepositoryRecord, error) {
	repos, err := cache.Fetch(ctx, s.cache, repositoriesQueryKey, s.listRepositories)
	if err != nil {
		return model.RepositoryRecord{}, err
	}

	for _, r := range repos {
		if r.Repository.Name != name {
			continue
		}

		if r.Err != nil {
			return r.Repository, r.Err
		}

		return s.EnrichSingleRepository(ctx, r.Repository)
	}

	return model.RepositoryRecord{}, fmt.Errorf("%w: repository %q", model.ErrNotFound, name)
}

// listRepositories maps the source repositories to base records
// an entry with missing mandatory fields becomes a failed result instead of failing the list
func (s repositoryService) listRepositories(ctx context.Context) ([]model.RepositoryResult, error) {
	repos, err := s.source.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]model.RepositoryResult, 0, len(repos))

	for i, r := range repos {
		if r == nil || r.Name == nil || r.Owner == nil || r.Owner.Login == nil {
			log.WithFields(log.Fields{
				"position": i,
				"name":     r.GetName(),
			}).Debug("repository found with invalid information. skipped from enrichment")

			results = append(results, model.RepositoryResult{
				Repository: model.RepositoryRecord{Name: r.GetName()},
				Err:        fmt.Errorf("%w: repository at position %d has no name or owner", model.ErrInvalidData, i),
			})

			continue
		}

		results = append(results, model.RepositoryResult{Repository: toRepositoryRecord(r)})
	}

	return results, nil
}

func toRepositoryRecord(r *github.Repository) model.RepositoryRecord {
	record := model.RepositoryRecord{
		Name: r.GetName(),
		Owner: model.Owner{
			Login:   r.GetOwner().GetLogin(),
			HTMLURL: r.GetOwner().GetHTMLURL(),
		},
		HTMLURL:     r.GetHTMLURL(),
		Description: r.Description,
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
		Archived:    r.GetArchived(),
		Visibility:  r.GetVisibility(),
		Languages:   []model.LanguageShare{},
	}

	// licence can be null for some repositories
	if r.License != nil {
		record.LicenseURL = r.GetLicense().GetURL()
	}

	return record
}

// EnrichRepositories enriches every valid repository in its own goroutine, bounded by
// Tasks.MaxParallelTasksAllowed. Each goroutine writes to its own slot so results keep
// the listing order and one failure does not affect the others.
func (s repositoryService) EnrichRepositories(ctx context.Context, repos []model.RepositoryResult) []model.RepositoryResult {
	results := make([]model.RepositoryResult, len(repos))
	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)

	for i, r := range repos {
		if r.Err != nil {
			results[i] = r
			continue
		}

		swg.Add()
		go func(i int, r model.RepositoryRecord) {
			defer swg.Done()

			enriched, err := s.EnrichSingleRepository(ctx, r)
			results[i] = model.RepositoryResult{Repository: enriched, Err: err}
		}(i, r.Repository)
	}

	log.WithField("numberOfRepositories", len(repos)).Debug("waiting for all repositories enrichment to be finished")
	swg.Wait()
	log.Debug("all repositories enrichment finished")

	return results
}

// EnrichSingleRepository resolves the language shares and the license of one repository
// the returned record is a copy, the input is left untouched
func (s repositoryService) EnrichSingleRepository(ctx context.Context, r model.RepositoryRecord) (model.RepositoryRecord, error) {
	key := "languages:" + r.Owner.Login + "/" + r.Name

	languages, err := cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (map[string]int, error) {
		return s.source.ListLanguages(ctx, r.Owner.Login, r.Name)
	})

	if err != nil {
		log.WithError(err).WithField("repository", r.Name).Warning("unable to fetch repository languages")
		return r, err
	}

	r.Languages = AggregateLanguages(languages, s.colors)

	license, err := s.licenseResolver.Resolve(ctx, r.LicenseURL)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"repository": r.Name,
			"licenseURL": r.LicenseURL,
		}).Warning("unable to resolve repository license")

		return r, err
	}

	r.License = license

	return r, nil
}
