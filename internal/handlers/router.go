package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	mw "habitq/internal/middleware"
	"habitq/internal/services"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Logger         *zap.Logger
	Auth           *services.AuthService
	Habits         *services.HabitService
	Logs           *services.LogService
	Heatmap        *services.HeatmapService
	Sessions       *mw.Sessions
	Timeout        time.Duration
	AllowedOrigins []string
	SecureCookie   bool
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.ZapRequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if d.Timeout > 0 {
		r.Use(middleware.Timeout(d.Timeout))
	}

	authHandler := NewAuthHandler(d.Auth, d.Sessions, d.SecureCookie)
	habitHandler := NewHabitHandler(d.Habits)
	logHandler := NewLogHandler(d.Logs)
	heatmapHandler := NewHeatmapHandler(d.Heatmap)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/logout", authHandler.Logout)

		api.Group(func(pr chi.Router) {
			pr.Use(d.Sessions.RequireUser(d.Auth, writeError))
			pr.Get("/me", GetMe)

			pr.Get("/habits", habitHandler.List)
			pr.Post("/habits", habitHandler.Create)
			pr.Get("/habits/{id}", habitHandler.Get)
			pr.Put("/habits/{id}", habitHandler.Update)
			pr.Delete("/habits/{id}", habitHandler.Delete)

			pr.Get("/logs/{habitId}", logHandler.List)
			pr.Post("/logs", logHandler.Toggle)

			pr.Get("/heatmap", heatmapHandler.Get)
		})
	})
	return r
}
