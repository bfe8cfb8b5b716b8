package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pass.share/internal/logging"
	"pass.share/internal/metrics"
	"pass.share/internal/pages"
	"pass.share/web"
)

func SetupRouter(reg *pages.Registry, m *metrics.Metrics, log *zap.Logger) (*chi.Mux, error) {
	if log == nil {
		log = zap.NewNop()
	}
	h, err := NewHandler(reg, m, log)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))

	// Frontend
	r.Get("/", h.Index)
	r.Get("/view/{token}", h.ViewRedirect)
	r.Get("/view/{token}/", h.ViewPage)

	// Page actions
	r.Route("/pages/{id}", func(r chi.Router) {
		r.Get("/", h.GetPage)
		r.Delete("/", h.DeletePage)
		r.Get("/qr.png", h.QRCode)

		r.Post("/password", h.UpdatePassword)
		r.Post("/options", h.SetOptions)
		r.Post("/generate", h.Generate)
		r.Post("/submit", h.Submit)
		r.Post("/reset", h.Reset)
		r.Post("/copy", h.Copy)

		r.Post("/load", h.Load)
		r.Post("/reveal", h.Reveal)
		r.Post("/revoke", h.Revoke)
	})

	return r, nil
}
