package handlers

import (
	"net/http"

	"projectdb/middleware"
	"projectdb/workload"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

const changePasswordPath = "/api/password"

func NewRouter(db *gorm.DB, store WorkloadStore, auth *middleware.Auth, codec *workload.DateCodec) http.Handler {
	authHandler := NewAuthHandler(db, auth)
	workloadHandler := NewWorkloadHandler(store, codec)
	exportHandler := NewExportHandler(store, codec)

	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Use(middleware.RequirePasswordChange(changePasswordPath))

			r.Get("/me", authHandler.Me)
			r.Post("/password", authHandler.ChangePassword)

			r.Get("/calendar", workloadHandler.Calendar)
			r.Get("/workloads", workloadHandler.List)

			r.Post("/plans", workloadHandler.CreatePlan)
			r.Put("/plans/{id}", workloadHandler.UpdatePlan)
			r.Delete("/plans/{id}", workloadHandler.DeletePlan)

			r.Post("/actuals", workloadHandler.CreateActual)
			r.Put("/actuals/{id}", workloadHandler.UpdateActual)
			r.Delete("/actuals/{id}", workloadHandler.DeleteActual)

			// Managers and admins only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePrivileged)
				r.Get("/export/csv", exportHandler.ExportCSV)
				r.Get("/export/xlsx", exportHandler.ExportXLSX)
			})
		})
	})

	return router
}
