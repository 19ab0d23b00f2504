package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dhruvat/astra-api/internal/api"
	apimiddleware "github.com/dhruvat/astra-api/internal/api/middleware"
	"github.com/dhruvat/astra-api/internal/store"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	blueprintHandler := api.NewBlueprintHandler(
		app.userStore,
		app.blueprintStore,
		app.generator,
		app.eventEmitter,
		func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, app.db, fn)
		},
		app.logger,
	)
	providerHandler := api.NewProviderHandler(
		app.registry,
		app.config.LLM.DefaultProvider,
		app.logger,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.Get("/providers", providerHandler.ListProviders)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/profile", blueprintHandler.GetProfile)

			r.Get("/blueprint", blueprintHandler.GetBlueprint)
			r.Get("/blueprint/{page}", blueprintHandler.GetBlueprintPage)
			r.Post("/blueprint/generate", blueprintHandler.GenerateBlueprint)
			r.Post("/blueprint/generate/{page}", blueprintHandler.GenerateBlueprintPage)
			r.Post("/blueprint/regenerate", blueprintHandler.Regenerate)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
