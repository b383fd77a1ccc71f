package router

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"field-tech-api/internal/handler"
	"field-tech-api/internal/middleware"
	"field-tech-api/internal/model"
)

type Config struct {
	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
	RequestTimeout   time.Duration
	UploadRoot       string
	StaticRoot       string
}

type Handlers struct {
	Health    *handler.HealthHandler
	Docs      *handler.DocsHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Client    *handler.ClientHandler
	Equipment *handler.EquipmentHandler
	Audit     *handler.AuditHandler
	Stats     *handler.StatsHandler
	Photo     *handler.PhotoHandler
	Carrier   *handler.CarrierHandler
	Catalog   *handler.CatalogHandler
}

func New(cfg Config, guard *middleware.Guard, h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.With(guard.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Group(func(optional chi.Router) {
			optional.Use(guard.OptionalAuth)

			optional.Post("/clients", h.Client.Create)
			optional.Post("/equipment/link", h.Equipment.Link)
			optional.Post("/photos", h.Photo.Upload)
			optional.Post("/audit", h.Audit.Create)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(guard.RequireAuth)

			authed.Get("/user", h.User.Get)
			authed.Put("/user", h.User.Update)
			authed.Post("/user/photo", h.User.UploadPhoto)

			authed.Get("/clients", h.Client.List)
			authed.Put("/clients", h.Client.Update)
			authed.With(guard.RequireRoles(model.RoleAdmin)).Delete("/clients", h.Client.Delete)
			authed.Get("/clients/search", h.Client.QuickSearch)

			authed.Get("/equipment/history", h.Equipment.History)

			authed.With(guard.RequireRoles(model.RoleAdmin)).Get("/audit", h.Audit.List)

			authed.Get("/dashboard", h.Stats.Dashboard)
			authed.Get("/performance", h.Stats.Performance)

			authed.Get("/plans", h.Catalog.Plans)
			authed.Get("/installers", h.Catalog.Installers)

			authed.Get("/photos", h.Photo.List)
			authed.Delete("/photos", h.Photo.Delete)

			authed.Post("/carrier/status", h.Carrier.Status)
		})
	})

	if cfg.UploadRoot != "" {
		serveFiles(r, "/uploads/*", http.StripPrefix("/uploads/", fileServer(cfg.UploadRoot)))
	}
	if cfg.StaticRoot != "" {
		serveFiles(r, "/*", fileServer(cfg.StaticRoot))
	}

	return r
}

// serveFiles registers read-only methods so writes to file paths get 405.
func serveFiles(r chi.Router, pattern string, h http.Handler) {
	r.Method(http.MethodGet, pattern, h)
	r.Method(http.MethodHead, pattern, h)
}

// fileServer serves files from root without directory listings. Missing
// files answer with the JSON not-found envelope.
func fileServer(root string) http.Handler {
	dir := http.Dir(root)
	files := http.FileServer(dir)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != "" && strings.HasSuffix(r.URL.Path, "/") {
			handler.NotFound(w, r)
			return
		}

		f, err := dir.Open(path.Clean("/" + r.URL.Path))
		if errors.Is(err, fs.ErrNotExist) {
			handler.NotFound(w, r)
			return
		}
		if err == nil {
			_ = f.Close()
		}

		files.ServeHTTP(w, r)
	})
}
