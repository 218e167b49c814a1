package controller

import "github.com/gin-gonic/gin"

// RegisterRoutes defines all routes of the api
func RegisterRoutes(router gin.IRouter, apiController APIController) {
	api := router.Group("")
	{
		api.GET("/repos", apiController.GetRepositories)
		api.GET("/repos/:name", apiController.GetRepository)
		api.GET("/events", apiController.GetEvents)
		api.GET("/contributions", apiController.GetContributions)
		api.GET("/profile", apiController.GetProfile)
		api.DELETE("/cache", apiController.PurgeCache)
	}
}
