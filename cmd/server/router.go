package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apimiddleware "github.com/taskboard/taskboard-api/internal/api/middleware"
)

// routes builds the application router: standard chi middleware,
// request tracing and metrics, public auth endpoints, and the
// authenticated API surface.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", app.authHandler.Register)
		r.Post("/auth/login", app.authHandler.Login)
		r.Post("/auth/refresh", app.authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", app.projectHandler.List)
				r.Post("/", app.projectHandler.Create)
				r.Get("/{id}", app.projectHandler.Get)
				r.Put("/{id}", app.projectHandler.Update)
				r.Delete("/{id}", app.projectHandler.Delete)
				r.Get("/{id}/tasks", app.projectHandler.Tasks)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", app.taskHandler.List)
				r.Post("/", app.taskHandler.Create)
				r.Get("/due", app.taskHandler.Due)
				r.Get("/overdue", app.taskHandler.Overdue)
				r.Get("/{id}", app.taskHandler.Get)
				r.Put("/{id}", app.taskHandler.Update)
				r.Delete("/{id}", app.taskHandler.Delete)
			})

			r.Route("/contributors", func(r chi.Router) {
				r.Get("/", app.contributorHandler.List)
				r.Post("/", app.contributorHandler.Create)
				r.Get("/{id}", app.contributorHandler.Get)
				r.Put("/{id}", app.contributorHandler.Update)
				r.Delete("/{id}", app.contributorHandler.Delete)
			})

			r.Get("/dashboard", app.dashboardHandler.Get)
		})
	})

	return r
}
