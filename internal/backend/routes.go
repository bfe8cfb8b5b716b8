package backend

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pass.share/internal/logging"
)

func SetupRouter(h *Handler, log *zap.Logger) *chi.Mux {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)

	jsonOnly := middleware.AllowContentType("application/json")
	r.Route("/share", func(r chi.Router) {
		r.With(jsonOnly).Post("/generate", h.Generate)
		r.With(jsonOnly).Post("/password", h.SharePassword)
		r.Post("/{token}", h.Redeem)
	})

	return r
}
