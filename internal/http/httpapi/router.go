package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter assembles the route table and the middleware chain.
func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.CORS)
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/", app.Root)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-presentation", app.GeneratePresentation)
		r.Post("/generate-presentation-async", app.GeneratePresentationAsync)
		r.Get("/presentation-status/{job_id}", app.PresentationStatus)
		r.Get("/downloads/{file_name}", app.DownloadFile)
		r.Get("/health", app.Health)
	})

	return r
}
