package routes

import (
	"net/http"

	"github.com/zatekoja/homeflow/internal/api/handlers"
	"github.com/zatekoja/homeflow/internal/api/middleware"
	"github.com/zatekoja/homeflow/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	toolHandler   *handlers.ToolHandler
	healthHandler *handlers.HealthHandler

	cacheMiddleware *middleware.CacheMiddleware
	rateLimiter     *middleware.RateLimiter
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware and rateLimiter are optional.
func NewRouter(
	toolHandler *handlers.ToolHandler,
	healthHandler *handlers.HealthHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	rateLimiter *middleware.RateLimiter,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		toolHandler:     toolHandler,
		healthHandler:   healthHandler,
		cacheMiddleware: cacheMiddleware,
		rateLimiter:     rateLimiter,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
	r.mux.HandleFunc("GET /ready", r.healthHandler.Ready)

	// Tool endpoints
	r.mux.HandleFunc("GET /api/tools", r.toolHandler.ListTools)
	r.mux.HandleFunc("POST /api/tools/{name}", r.toolHandler.CallTool)

	// Widget resource
	r.mux.HandleFunc("GET /api/resources/homeflow", r.toolHandler.GetHomeResource)

	// Innermost first. Logging and observability read r.Pattern after the
	// mux has matched, so nothing between them and the mux copies the request.
	var handler http.Handler = r.mux
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	if r.rateLimiter != nil {
		handler = r.rateLimiter.Middleware(handler)
	}

	handler = middleware.AccountMiddleware(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set on cache hits and 429s
	handler = middleware.CORSMiddleware(handler)

	return handler
}
