package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingo-api/internal/api"
	apimiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth.TokenLifetimeMinutes,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	scriptHandler := api.NewScriptHandler(app.scriptService)
	progressHandler := api.NewProgressHandler(app.progressService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/scripts", scriptHandler.CreateScript)
			r.Get("/scripts/{id}", scriptHandler.GetScript)

			r.Get("/progress", progressHandler.GetProgress)
			r.Put("/progress", progressHandler.PutProgress)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response")
		}
	})

	return r
}
