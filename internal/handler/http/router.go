package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/travelgo/travel-booking/internal/auth"
	"github.com/travelgo/travel-booking/pkg/health"
	"github.com/travelgo/travel-booking/pkg/middleware"
)

const (
	serviceName = "travel-booking"
	// tourCacheMaxAge is the public cache lifetime of catalogue responses.
	tourCacheMaxAge = 60
)

// RouterConfig holds the HTTP-layer settings that come from configuration.
type RouterConfig struct {
	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string
	// RateLimitRPS limits wishlist calls per client IP; 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates a chi router with all travel-booking routes registered.
// Metrics are registered with and served from registry.
func NewRouter(
	wishlistService WishlistService,
	tourService TourService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	registry *prometheus.Registry,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.NewHTTPMetrics(registry, serviceName).Middleware)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(_ context.Context, token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	wishlistHandler := NewWishlistHandler(wishlistService, logger)
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Get("/user/{userId}", wishlistHandler.GetUserWishlist)
		r.Get("/tour/{tourId}/count", wishlistHandler.CountByTour)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequestLogger(logger))

			r.Get("/my-wishlist", wishlistHandler.GetMyWishlist)
			r.Post("/add-current", wishlistHandler.AddCurrent)
			r.Delete("/remove-current", wishlistHandler.RemoveCurrent)
			r.Get("/contains-current", wishlistHandler.ContainsCurrent)
		})
	})

	tourHandler := NewTourHandler(tourService, logger)
	r.Route("/api/tours", func(r chi.Router) {
		r.Use(middleware.CacheControl(tourCacheMaxAge))

		r.Get("/", tourHandler.List)
		r.Get("/{id}", tourHandler.Get)
	})

	return r
}
