// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/permy/controller"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/metrics"
	"github.com/dev-mohitbeniwal/permy/middleware"
)

// Options carries the cross-cutting settings of the HTTP surface. Zero values
// switch the matching middleware off.
type Options struct {
	AuthSecret        string
	RateLimitRequests int
	RateLimitDuration time.Duration
	Limiter           middleware.LimitFunc
	Authorizer        middleware.Authorizer
	Metrics           *metrics.Metrics
}

func SetupRouter(controllers *controller.Controllers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Instrument())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	api := router.Group("/api/v1")
	if opts.AuthSecret != "" {
		api.Use(middleware.Auth(opts.AuthSecret))
	} else {
		logger.Warn("auth.secret is empty, the API is served without authentication")
	}
	if opts.Limiter != nil && opts.RateLimitRequests > 0 {
		api.Use(middleware.RateLimiter(opts.RateLimitRequests, opts.RateLimitDuration, opts.Limiter))
	}
	if opts.Authorizer != nil {
		api.Use(middleware.PermissionGuard(opts.Authorizer))
	}

	controllers.Permission.RegisterRoutes(api)

	return router
}
