package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghprofile/profile-api/cache"
	"github.com/ghprofile/profile-api/config"
	"github.com/ghprofile/profile-api/controller"
	"github.com/ghprofile/profile-api/logger"
	"github.com/ghprofile/profile-api/middleware"
	"github.com/ghprofile/profile-api/service"
	"github.com/ghprofile/profile-api/source"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("unable to load configuration")
	}

	// configure logger
	if err := logger.Setup(*cfg); err != nil {
		log.WithError(err).Fatal("unable to configure logger")
	}

	location, err := cfg.Location()
	if err != nil {
		log.WithError(err).Fatal("unable to load calendar timezone")
	}

	// the color table is static reference data, loaded once and injected
	colorTable, err := service.LoadColorTable(cfg.Colors.File)
	if err != nil {
		log.WithError(err).Fatal("unable to load language colors")
	}

	// setup github client and its local rate limiter, only used by the github source
	var (
		githubClient *github.Client
		rateLimiter  *rate.Limiter
	)

	if cfg.Source.Kind == config.SourceKindGithub {
		githubClient = github.NewClient(nil)

		if cfg.Github.Token != "" {
			log.Debug("will setup github client with authorization token")
			githubClient = githubClient.WithAuthToken(cfg.Github.Token)
		}

		rateLimiter, err = source.NewRateLimiter(context.Background(), githubClient)
		if err != nil {
			log.WithError(err).Fatal("unable to configure the github rate limiter")
		}
	}

	src, err := source.New(*cfg, githubClient, rateLimiter)
	if err != nil {
		log.WithError(err).Fatal("unable to setup data source")
	}

	log.WithField("timezone", location.String()).Info("data source ready")

	// setup handlers and services
	queryCache := cache.NewQueryCache()
	colors := service.WithFallback(colorTable, cfg.Colors.Fallback)
	licenseResolver := service.NewLicenseResolver(src, queryCache)
	repositoryService := service.NewRepositoryService(*cfg, src, colors, licenseResolver, queryCache)
	eventService := service.NewEventService(src, queryCache, location)
	apiController := controller.NewAPIController(*cfg, repositoryService, eventService, queryCache)

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &http.Server{
		Addr:              ":" + cfg.API.ListenPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "DELETE"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With, X-Request-ID"},
			MaxAge:       12 * time.Hour,
		}),
	)

	controller.RegisterRoutes(router, apiController)

	// start with configuration
	go func() {
		log.Info("server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	// the server has 15 seconds to finish the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	} else {
		log.Info("Application stopped gracefully !")
	}
}
