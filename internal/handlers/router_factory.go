package handlers

import (
	"database/sql"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"feedbackapp/internal/config"
	"feedbackapp/internal/middleware"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/serviceinterfaces"
	"feedbackapp/internal/version"
)

var startTime = time.Now()

// NewRouter creates the gin engine with all middleware and routes wired up.
func NewRouter(
	cfg *config.Config,
	feedbackService serviceinterfaces.FeedbackServiceInterface,
	db *sql.DB,
	logger *observability.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// HTTP request logging through the observability logger
	router.Use(func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.path":        c.Request.URL.Path,
			"http.status_code": statusCode,
			"http.latency_ms":  latency.Milliseconds(),
			"http.client_ip":   c.ClientIP(),
			"http.user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["http.error"] = c.Errors.String()
		}

		switch {
		case statusCode >= 500:
			logger.Error(c.Request.Context(), "HTTP request failed", nil, fields)
		case statusCode >= 400:
			logger.Warn(c.Request.Context(), "HTTP request warning", fields)
		default:
			logger.Info(c.Request.Context(), "HTTP request", fields)
		}
	})

	// Health check endpoint (defined before any middleware)
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		httpStatus := http.StatusOK
		if err := db.PingContext(c.Request.Context()); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":         status,
			"uptime_seconds": int64(time.Since(startTime).Seconds()),
			"database":       cfg.Database.Path,
		})
	})

	if cfg.Metrics.Enabled {
		observability.RegisterDefaultMetrics()
		router.GET("/metrics", gin.WrapH(observability.MetricsHandler(prometheus.DefaultGatherer)))
		router.Use(middleware.Metrics())
	}

	// OpenTelemetry middleware for HTTP tracing and context propagation
	router.Use(observability.GinMiddlewareWithErrorHandling(cfg.OpenTelemetry.ServiceName))

	// Response validation for the JSON API
	router.Use(middleware.ResponseValidationMiddleware(logger))

	router.RedirectTrailingSlash = false

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Requested-With"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Cookie-backed session store for flash messages
	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	sessionOpts := sessions.Options{
		Path:     config.SessionPath,
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		HttpOnly: config.SessionHTTPOnly,
		Secure:   config.SessionSecure,
	}
	if cfg.Server.Debug {
		sessionOpts.SameSite = http.SameSiteDefaultMode
	} else {
		sessionOpts.SameSite = http.SameSiteLaxMode
	}
	store.Options(sessionOpts)
	router.Use(sessions.Sessions(config.SessionName, store))

	// Security headers
	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.ContentSecurityPolicy = config.DefaultCSP
	router.Use(secure.New(secureConfig))

	// Embedded HTML templates
	tmpl := template.Must(template.New("").ParseFS(TemplatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	feedbackHandler := NewFeedbackHandler(feedbackService, cfg, logger)

	// HTML routes
	router.GET("/", feedbackHandler.Home)
	router.GET("/create_feedback", feedbackHandler.CreateFeedbackPage)
	router.POST("/create_feedback", feedbackHandler.CreateFeedback)
	router.GET("/read_feedback", feedbackHandler.ReadFeedback)
	router.GET("/update_feedback/:id", feedbackHandler.UpdateFeedbackPage)
	router.POST("/update_feedback/:id", feedbackHandler.UpdateFeedback)
	router.GET("/delete_feedback/:id", feedbackHandler.DeleteFeedback)

	// V1 JSON API
	v1 := router.Group("/v1")
	{
		v1.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"service":   "feedbackapp",
				"version":   version.Version,
				"commit":    version.Commit,
				"buildTime": version.BuildTime,
			})
		})
		v1.GET("/feedback", feedbackHandler.ListFeedback)
		v1.GET("/feedback/:id", feedbackHandler.GetFeedback)
	}

	return router
}
