package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upb/coffee-shop/app"
	"github.com/upb/coffee-shop/auth0"
	"github.com/upb/coffee-shop/handlers"
	"github.com/upb/coffee-shop/middleware"
	"github.com/upb/coffee-shop/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	if timeout := deps.Config.Server.RequestTimeout; timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}

	r.Use(cors.Handler(corsOptions(deps.Config.CORS.AllowedOrigins)))

	// Health check endpoints
	health := handlers.NewHealthHandler(deps.DB, deps.Logger)
	if deps.Verifier != nil {
		health.WithCheck("jwks", handlers.HealthCheckFunc(func(ctx context.Context) error {
			_, err := deps.Verifier.FetchJWKS(ctx)
			return err
		}))
	}
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	if deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Drink catalog
	drinkHandler := handlers.NewDrinkHandler(deps.DrinkService, deps.Logger)
	guard := func(permission string) alice.Chain {
		return alice.New(deps.AuthMiddleware.RequirePermission(permission))
	}

	r.Get("/drinks", drinkHandler.HandleListDrinks)
	r.Method(http.MethodGet, "/drinks-detail",
		guard(auth0.PermissionGetDrinksDetail).ThenFunc(drinkHandler.HandleListDrinkDetails))
	r.Method(http.MethodPost, "/drinks",
		guard(auth0.PermissionPostDrinks).ThenFunc(drinkHandler.HandleCreateDrink))
	r.Method(http.MethodPatch, "/drinks/{id}",
		guard(auth0.PermissionPatchDrinks).ThenFunc(drinkHandler.HandleUpdateDrink))
	r.Method(http.MethodDelete, "/drinks/{id}",
		guard(auth0.PermissionDeleteDrinks).ThenFunc(drinkHandler.HandleDeleteDrink))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w)
	})

	return r
}

// corsOptions allows every origin in origins. Credentials are only allowed
// when no wildcard is configured.
func corsOptions(origins []string) cors.Options {
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}
}
