package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/product-inventory-admin/internal/health"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/handler"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/middleware"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/response"
)

const maxRequestBodyBytes = 1 << 20

type Dependencies struct {
	ProductHandler  *handler.ProductHandler
	CORSOrigins     []string
	APIRateLimitRPM int
	APIRateLimiter  APIRateLimiterFunc
	Readiness       *health.ProbeRunner
	EnableOTelHTTP  bool
}

type APIRateLimiterFunc func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(maxRequestBodyBytes))

	apiLimiter := dep.APIRateLimiter
	if apiLimiter == nil {
		apiLimiter = middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware()
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Use(apiLimiter)
		r.Get("/", dep.ProductHandler.List)
		r.Post("/", dep.ProductHandler.Create)
		r.Get("/{id}", dep.ProductHandler.GetByID)
		r.Put("/{id}", dep.ProductHandler.Update)
		r.Delete("/{id}", dep.ProductHandler.Delete)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
