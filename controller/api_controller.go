package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/ghprofile/profile-api/cache"
	"github.com/ghprofile/profile-api/config"
	"github.com/ghprofile/profile-api/model"
	"github.com/ghprofile/profile-api/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type APIController interface {
	GetRepositories(ctx *gin.Context)
	GetRepository(ctx *gin.Context)
	GetEvents(ctx *gin.Context)
	GetContributions(ctx *gin.Context)
	GetProfile(ctx *gin.Context)
	PurgeCache(ctx *gin.Context)
}

type apiController struct {
	repositoryService service.RepositoryService
	eventService      service.EventService
	queryCache        *cache.QueryCache
	config            config.Config
	now               func() time.Time
}

// ProfileResponse carries both dashboard widgets, a widget that failed to load
// is empty and its error is reported next to it
type ProfileResponse struct {
	Repositories       *model.RepositoryListing `json:"repositories"`
	RepositoriesError  *model.APIError          `json:"repositoriesError,omitempty"`
	Contributions      *model.Calendar          `json:"contributions"`
	ContributionsError *model.APIError          `json:"contributionsError,omitempty"`
}

func NewAPIController(config config.Config, repositoryService service.RepositoryService, eventService service.EventService, queryCache *cache.QueryCache) APIController {
	return apiController{
		repositoryService: repositoryService,
		eventService:      eventService,
		queryCache:        queryCache,
		config:            config,
		now:               time.Now,
	}
}

func (s apiController) GetRepositories(c *gin.Context) {
	var query model.RepositoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, model.APIError{Code: "INVALID_QUERY", Message: err.Error()})
		return
	}

	results, err := s.repositoryService.FetchRepositories(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	listing := model.NewRepositoryListing(results)
	listing.Repositories = query.Filter(listing.Repositories)

	c.JSON(http.StatusOK, listing)
}

func (s apiController) GetRepository(c *gin.Context) {
	repo, err := s.repositoryService.FetchRepository(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, repo)
}

func (s apiController) GetEvents(c *gin.Context) {
	events, err := s.eventService.FetchEvents(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (s apiController) GetContributions(c *gin.Context) {
	calendar, err := s.eventService.FetchCalendar(c.Request.Context(), s.now())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, calendar)
}

// GetProfile loads both widgets concurrently
func (s apiController) GetProfile(c *gin.Context) {
	var (
		g                 errgroup.Group
		response          ProfileResponse
		reposErr, contErr error
	)

	ctx := c.Request.Context()

	g.Go(func() error {
		results, err := s.repositoryService.FetchRepositories(ctx)
		if err != nil {
			reposErr = err
			return err
		}

		listing := model.NewRepositoryListing(results)
		response.Repositories = &listing
		return nil
	})

	g.Go(func() error {
		calendar, err := s.eventService.FetchCalendar(ctx, s.now())
		if err != nil {
			contErr = err
			return err
		}

		response.Contributions = &calendar
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warning("profile loaded partially")
	}

	if reposErr != nil && contErr != nil {
		s.abortWithError(c, reposErr)
		return
	}

	if reposErr != nil {
		apiErr := model.NewAPIError(reposErr)
		response.RepositoriesError = &apiErr
	}

	if contErr != nil {
		apiErr := model.NewAPIError(contErr)
		response.ContributionsError = &apiErr
	}

	c.JSON(http.StatusOK, response)
}

func (s apiController) PurgeCache(c *gin.Context) {
	purged := s.queryCache.Purge()

	log.WithField("purgedQueries", purged).Info("query cache purged")

	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

func (s apiController) abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), model.NewAPIError(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrRateLimitReached):
		return http.StatusTooManyRequests
	case errors.Is(err, model.ErrFetch), errors.Is(err, model.ErrInvalidData):
		// the upstream answered with something unusable
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
