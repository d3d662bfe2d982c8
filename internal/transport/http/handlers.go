// @title WebProMedid API
// @version 1.0.0
// @description Multi-tenant landing site configuration service

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /api/v1

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/duvan51/webpromedid/internal/audit"
	"github.com/duvan51/webpromedid/internal/catalog"
	"github.com/duvan51/webpromedid/internal/docpath"
	"github.com/duvan51/webpromedid/internal/observability/logger"
	"github.com/duvan51/webpromedid/internal/observability/metrics"
	"github.com/duvan51/webpromedid/internal/pageconfig"
	"github.com/duvan51/webpromedid/internal/preview"
	"github.com/duvan51/webpromedid/internal/tenant"
	"github.com/duvan51/webpromedid/internal/visibility"
)

// maxBodyBytes bounds admin request bodies
const maxBodyBytes = 1 << 20

// Options holds transport settings
type Options struct {
	// TrustProxy makes site resolution read X-Forwarded-Host and the rate
	// limiter read X-Forwarded-For.
	TrustProxy bool
	// AdminFS serves the admin console at /admin/ when set.
	AdminFS fs.FS
	Metrics *metrics.HTTPMetrics
	// Audit records preview token issuance. Nil logs through slog.
	Audit audit.Logger
	// Ready reports store health for /health. Nil means always ready.
	Ready func(ctx context.Context) error
}

// Handler holds HTTP handlers and dependencies
type Handler struct {
	tenantService  *tenant.Service
	resolver       *tenant.Resolver
	pageService    *pageconfig.Service
	catalogService *catalog.Service
	previewService *preview.Service
	sessions       *SessionRegistry
	options        Options
}

// NewHandler creates a new HTTP handler
func NewHandler(
	tenantService *tenant.Service,
	resolver *tenant.Resolver,
	pageService *pageconfig.Service,
	catalogService *catalog.Service,
	previewService *preview.Service,
	options Options,
) *Handler {
	if options.Audit == nil {
		options.Audit = audit.NewSlogLogger()
	}
	return &Handler{
		tenantService:  tenantService,
		resolver:       resolver,
		pageService:    pageService,
		catalogService: catalogService,
		previewService: previewService,
		sessions:       NewSessionRegistry(resolver, defaultMaxSessions),
		options:        options,
	}
}

// Close releases the preview resolution sessions
func (h *Handler) Close() {
	h.sessions.Close()
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if h.options.Metrics != nil {
		r.Use(MetricsMiddleware(h.options.Metrics))
	}
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Public site rendering, resolved from the request host
		r.With(h.SiteMiddleware).Get("/site", h.GetSite)
		r.Get("/preview", h.GetPreview)
		r.Get("/themes", h.ListThemes)

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(RateLimitMiddleware(rateLimiter))
			r.Use(CSRFMiddleware)

			r.Get("/preview/resolve", h.ResolvePreviewHost)

			r.Route("/tenants", func(r chi.Router) {
				r.Post("/", h.CreateTenant)
				r.Get("/", h.ListTenants)

				r.Route("/{tenantID}", func(r chi.Router) {
					r.Use(h.TenantMiddleware)

					r.Get("/", h.GetTenant)
					r.Patch("/", h.UpdateTenant)
					r.Put("/status", h.SetTenantStatus)
					r.Put("/config", h.UpdateTenantConfig)
					r.Post("/preview-tokens", h.IssuePreviewToken)

					r.Get("/pages", h.ListPages)
					r.Route("/pages/{page}", func(r chi.Router) {
						r.Get("/", h.OpenPage)
						r.Put("/", h.ReplacePage)
						r.Patch("/fields", h.SetPageField)
						r.Post("/visibility/toggle", h.TogglePageVisibility)
						r.Post("/sections/{section}/move", h.MovePageSection)
						r.Post("/sections/{section}/enable", h.EnablePageSection)
						r.Post("/sections/{section}/disable", h.DisablePageSection)
						r.Post("/lists/{list}/items", h.AddPageListItem)
						r.Delete("/lists/{list}/items/{index}", h.RemovePageListItem)
						r.Post("/lists/{list}/items/{index}/visibility/toggle", h.TogglePageListItemVisibility)
					})

					r.Get("/catalog/{kind}", h.ListCatalogItems)
					r.Post("/catalog/{kind}", h.AddCatalogItem)
					r.Delete("/catalog/{kind}/{itemID}", h.RemoveCatalogItem)
				})
			})
		})
	})

	if h.options.AdminFS != nil {
		r.Handle("/admin/*", http.StripPrefix("/admin", SPAHandler{StaticFS: h.options.AdminFS}))
		r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/", http.StatusMovedPermanently)
		})
	}

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service and its store are up
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.options.Ready != nil {
		if err := h.options.Ready(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "health check failed", logger.Error(err))
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": "webpromedid",
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "webpromedid",
	})
}

// ListThemes lists the registered themes
// @Summary List Themes
// @Tags Site
// @Produce json
// @Success 200 {array} tenant.Theme
// @Router /themes [get]
func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, tenant.Themes())
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// decodeJSON decodes a bounded request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, docpath.ErrInvalidPath),
		errors.Is(err, docpath.ErrIndexOutOfRange),
		errors.Is(err, pageconfig.ErrUnknownField),
		errors.Is(err, pageconfig.ErrInvalidValue),
		errors.Is(err, pageconfig.ErrUnknownSection),
		errors.Is(err, pageconfig.ErrUnknownList),
		errors.Is(err, pageconfig.ErrIndexOutOfRange),
		errors.Is(err, pageconfig.ErrInvalidDirection),
		errors.Is(err, pageconfig.ErrInvalidPageSlug),
		errors.Is(err, pageconfig.ErrMalformedDocument),
		errors.Is(err, visibility.ErrInvalidBreakpoint),
		errors.Is(err, tenant.ErrInvalidSlug),
		errors.Is(err, tenant.ErrInvalidDomain),
		errors.Is(err, tenant.ErrInvalidTheme),
		errors.Is(err, tenant.ErrInvalidConfig),
		errors.Is(err, tenant.ErrInvalidStatus),
		errors.Is(err, tenant.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidKind),
		errors.Is(err, catalog.ErrInvalidData),
		errors.Is(err, catalog.ErrTenantRequired):
		return http.StatusBadRequest
	case errors.Is(err, preview.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, tenant.ErrTenantNotFound),
		errors.Is(err, pageconfig.ErrPageNotFound),
		errors.Is(err, catalog.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, tenant.ErrSlugTaken),
		errors.Is(err, tenant.ErrDomainTaken),
		errors.Is(err, pageconfig.ErrVersionConflict),
		errors.Is(err, pageconfig.ErrPageExists),
		errors.Is(err, docpath.ErrTypeConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with its mapped status. Internal errors
// are logged and never echoed.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			logger.Path(r.URL.Path),
			logger.Error(err),
		)
		respondError(w, status, "internal server error")
		return
	}
	respondError(w, status, err.Error())
}
