package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/jobcircle/onboarding-api/config"
	"github.com/jobcircle/onboarding-api/internal/handlers"
	"github.com/jobcircle/onboarding-api/internal/middleware"
	"github.com/jobcircle/onboarding-api/internal/services"
	"github.com/jobcircle/onboarding-api/internal/wizard"
	"github.com/jobcircle/onboarding-api/pkg/assetstore"
	"github.com/jobcircle/onboarding-api/pkg/catalog"
	"github.com/jobcircle/onboarding-api/pkg/coreapi"
	"github.com/jobcircle/onboarding-api/pkg/httpclient"
	"github.com/jobcircle/onboarding-api/pkg/jwt"
	"github.com/jobcircle/onboarding-api/pkg/logger"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
	"github.com/jobcircle/onboarding-api/pkg/profiling"
	"github.com/jobcircle/onboarding-api/pkg/recaptcha"
	"github.com/jobcircle/onboarding-api/pkg/tracing"
)

// registerOnboardingRoutes registers the wizard and submission routes
func registerOnboardingRoutes(
	group *gin.RouterGroup,
	generalRateLimiter, registrationRateLimiter *middleware.RateLimiter,
	onboardingHandler *handlers.OnboardingHandler,
) {
	drafts := group.Group("/onboarding/drafts")
	drafts.POST("", generalRateLimiter.Middleware(), onboardingHandler.CreateDraft)
	drafts.GET("/:id", generalRateLimiter.Middleware(), onboardingHandler.GetDraft)
	drafts.PUT("/:id/personal", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), onboardingHandler.SavePersonal)
	drafts.PUT("/:id/career", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), onboardingHandler.SaveCareer)
	drafts.POST("/:id/skills", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), onboardingHandler.SelectSkill)
	drafts.POST("/:id/skills/other", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), onboardingHandler.AddOtherSkill)
	drafts.DELETE("/:id/skills/:skillId", generalRateLimiter.Middleware(), onboardingHandler.RemoveSkill)
	drafts.POST("/:id/assets/:kind", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(12*1024*1024), onboardingHandler.StageAsset)
	drafts.POST("/:id/submit", registrationRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), onboardingHandler.Submit)

	group.GET("/skills/search", generalRateLimiter.Middleware(), onboardingHandler.SearchSkills)
	group.POST("/onboarding/password", generalRateLimiter.Middleware(), onboardingHandler.GeneratePassword)
}

// registerActivationRoutes registers activation and session routes
func registerActivationRoutes(
	router *gin.Engine,
	cfg *config.Config,
	activationRateLimiter *middleware.RateLimiter,
	activationHandler *handlers.ActivationHandler,
	tokenManager *jwt.TokenManager,
) {
	activation := router.Group("/api/v1/activation")
	activation.POST("", activationRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), activationHandler.Activate)
	activation.POST("/logout", activationHandler.Logout)
	activation.GET("/session", middleware.CandidateSessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure), activationHandler.GetSession)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting JobCircle Onboarding API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.OTLPEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// HTTP clients for upstream services
	httpClient := httpclient.NewStandardClient()
	accountsClient := httpclient.NewStandardClientWithTimeout(time.Duration(cfg.Accounts.TimeoutSeconds) * time.Second)

	// Storage backend for deferred asset uploads
	var uploader assetstore.Uploader
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		uploader, err = assetstore.NewS3Store(
			cfg.Storage.S3.AccessKeyID,
			cfg.Storage.S3.SecretAccessKey,
			cfg.Storage.S3.BucketName,
			cfg.Storage.S3.Endpoint,
			cfg.Storage.S3.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage client", zap.Error(err))
		}
	default:
		uploader = assetstore.NewHTTPStore(
			cfg.Storage.HTTP.Endpoint,
			cfg.Storage.HTTP.AccessKey,
			cfg.Storage.HTTP.SecretKey,
			httpClient,
		)
	}

	// Upstream API clients
	coreAPI := coreapi.NewClient(cfg.Accounts.BaseURL, accountsClient)
	catalogClient := catalog.NewClient(
		cfg.Catalog.BaseURL,
		httpClient,
		time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second,
	)

	// Wizard state
	draftStore := wizard.NewStore(time.Duration(cfg.Drafts.TTLMinutes) * time.Minute)
	searcher := wizard.NewSearcher(catalogClient)

	// Captcha verification (optional; skipped in development)
	var verifier *recaptcha.Verifier
	if cfg.ReCAPTCHA.SecretKey != "" {
		verifier = recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient)
	}

	// Session tokens
	tokenManager := jwt.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.SessionTTLHours)

	// Initialize services
	registrationService := services.NewRegistrationService(draftStore, searcher, coreAPI, uploader, verifier, cfg, httpClient)
	activationService := services.NewActivationService(coreAPI)

	// Initialize handlers
	onboardingHandler := handlers.NewOnboardingHandler(registrationService)
	healthHandler := handlers.NewHealthHandler(func() bool { return cfg.Accounts.BaseURL != "" })
	activationHandler := handlers.NewActivationHandler(activationService, tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for candidate session cookies
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	// Different limits for different endpoint types
	generalRateLimiter := middleware.NewRateLimiter(100, 200)       // 100 req/sec, burst of 200
	registrationRateLimiter := middleware.NewRateLimiter(0.0333, 3) // 2 req/min, burst of 3 (submission abuse prevention)
	activationRateLimiter := middleware.NewRateLimiter(0.0333, 5)   // 2 req/min, burst of 5 (OTP guessing prevention)

	// API routes
	api := router.Group("/api")
	// Utility endpoints (not versioned - operational endpoints)
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	// SECURITY: Apply body size limits to prevent DoS attacks
	v1 := router.Group("/api/v1")
	registerOnboardingRoutes(v1, generalRateLimiter, registrationRateLimiter, onboardingHandler)

	// Activation and session routes
	registerActivationRoutes(router, cfg, activationRateLimiter, activationHandler, tokenManager)

	// Create HTTP server
	// SECURITY: Bind to all interfaces for Docker Compose networking
	// Network isolation is enforced by Docker Compose (backend has no public ports)
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
