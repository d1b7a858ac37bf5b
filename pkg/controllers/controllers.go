package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boostiq/pkg/entities"
)

type Controller struct {
	router *gin.RouterGroup
}

// NewController
func NewController(router *gin.RouterGroup) *Controller {
	return &Controller{router: router}
}

// InitRoutes
func (c *Controller) InitRoutes() {
	c.router.GET("/", c.RootHandler)
	c.router.GET("/health", c.HealthHandler)
	c.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (c *Controller) RootHandler(ctx *gin.Context) {
	ctx.JSON(
		http.StatusOK, entities.Response{
			StatusCode: 200,
			Message:    "Welcome to the BoostIQ API! Please refer to the documentation for information on available endpoints.",
		},
	)
}

// HealthHandler
func (c *Controller) HealthHandler(ctx *gin.Context) {
	ctx.JSON(
		http.StatusOK, entities.Response{
			StatusCode: 200,
			Message:    "Health check ok",
		},
	)
}
