package router

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	docs "github.com/saude-emendas/backend/api"
	"github.com/saude-emendas/backend/internal/controllers/healthz"
	"github.com/saude-emendas/backend/internal/controllers/root"
	v1 "github.com/saude-emendas/backend/internal/controllers/v1"
	versionController "github.com/saude-emendas/backend/internal/controllers/version"
	"github.com/saude-emendas/backend/internal/httperror"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time with -ldflags "-X".
var version = "0.0.0"

var errMethodNotAllowed = errors.New("this HTTP method is not allowed for the endpoint you called")

// metricsEnabled reports whether Prometheus metrics are collected and exposed.
func metricsEnabled() bool {
	disabled, ok := os.LookupEnv("DISABLE_METRICS")
	return !ok || disabled != "true"
}

// Config configures the router and its middlewares.
//
// The returned function unregisters the Prometheus metrics and must be
// called before Config is called again in the same process.
func Config(url *url.URL) (*gin.Engine, func(), error) {
	teardown := func() {}

	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))

	if metricsEnabled() {
		err := registerPrometheusMetrics()
		if err != nil {
			return nil, teardown, err
		}

		teardown = func() {
			unregisterPrometheusMetrics()
		}
		r.Use(MetricsMiddleware())
	}

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, httperror.New(errMethodNotAllowed))
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(_, _, _ string, _ int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "Emendas Saúde"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for the dashboard of parliamentary amendments destined to the state health secretariat."

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in
// Separating this from Config() allows us to attach it to different
// paths for different use cases, e.g. the standalone version.
func AttachRoutes(group *gin.RouterGroup) {
	root.RegisterRoutes(group.Group(""))
	versionController.RegisterRoutes(group.Group("/version"), version)
	healthz.RegisterRoutes(group.Group("/healthz"))

	if metricsEnabled() {
		group.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 setup
	v1Group := group.Group("/v1")
	v1.RegisterRootRoutes(v1Group)
	v1.RegisterAmendmentRoutes(v1Group.Group("/amendments"))
	v1.RegisterActionRoutes(v1Group.Group("/actions"))
	v1.RegisterDestinationRoutes(v1Group.Group("/destinations"))
	v1.RegisterExpenseRoutes(v1Group.Group("/expenses"))
	v1.RegisterTransferRoutes(v1Group.Group("/transfers"))
	v1.RegisterReportRoutes(v1Group.Group("/reports"))
	v1.RegisterAuditRoutes(v1Group.Group("/audit-entries"))
}
