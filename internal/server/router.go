package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	authhandler "github.com/looply/looply-backend/internal/auth/handler"
	companyhandler "github.com/looply/looply-backend/internal/company/handler"
	eodhandler "github.com/looply/looply-backend/internal/eod/handler"
	"github.com/looply/looply-backend/pkg/httputil"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/permissions"
)

// HealthCheck reports the status of one dependency
type HealthCheck func(ctx context.Context) map[string]string

// Deps are the collaborators the router mounts
type Deps struct {
	Auth           *authhandler.AuthHandler
	Company        *companyhandler.CompanyHandler
	EOD            *eodhandler.EODHandler
	Verifier       httputil.TokenVerifier
	Logger         *logger.Logger
	AllowedOrigins []string
	Health         map[string]HealthCheck
}

// NewRouter builds the HTTP API
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(d.Logger))
	r.Use(httputil.Recoverer(d.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(d.Health))

	authenticate := httputil.Authenticate(d.Verifier, d.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", d.Auth.SignUp)
			r.Post("/login", d.Auth.Login)
			r.Post("/access-code", d.Auth.AccessCode)
			r.With(authenticate).Get("/me", d.Auth.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.With(httputil.RequirePermission(permissions.CompanyManage)).Post("/company", d.Company.Create)
			r.With(httputil.RequirePermission(permissions.CompanyRead)).Get("/company", d.Company.Get)

			r.Route("/employees", func(r chi.Router) {
				r.With(httputil.RequirePermission(permissions.EmployeesRead)).Get("/", d.Company.ListEmployees)

				r.Group(func(r chi.Router) {
					r.Use(httputil.RequirePermission(permissions.EmployeesManage))
					r.Post("/", d.Company.AddEmployee)
					r.Patch("/{id}/active", d.Company.SetActive)
					r.Delete("/{id}", d.Company.RemoveEmployee)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.With(httputil.RequirePermission(permissions.ReportsRead)).Get("/", d.EOD.ListReports)
				r.With(httputil.RequirePermission(permissions.ReportsRead)).Get("/stats", d.EOD.Stats)
				r.With(httputil.RequirePermission(permissions.ReportsExport)).Get("/export", d.EOD.Export)
			})

			r.Route("/me/reports", func(r chi.Router) {
				r.With(httputil.RequirePermission(permissions.OwnReportsRead)).Get("/", d.EOD.MyReports)
				r.With(httputil.RequirePermission(permissions.OwnReportsRead)).Get("/{date}", d.EOD.GetMyReport)

				r.Group(func(r chi.Router) {
					r.Use(httputil.RequirePermission(permissions.OwnReportsWrite))
					r.Put("/{date}", d.EOD.SaveMyReport)
					r.Post("/{date}/submit", d.EOD.SubmitMyReport)
				})
			})
		})
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		body := map[string]interface{}{}
		for name, check := range checks {
			result := check(ctx)
			if result["status"] != "up" && result["status"] != "disabled" {
				status = "degraded"
			}
			body[name] = result
		}
		body["status"] = status

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		httputil.JSON(w, code, body)
	}
}
