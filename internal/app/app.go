// Package app wires repositories, services and handlers over a storage backend.
package app

import (
	"net/http"
	"time"

	authhandler "github.com/looply/looply-backend/internal/auth/handler"
	"github.com/looply/looply-backend/internal/auth/jwt"
	authrepo "github.com/looply/looply-backend/internal/auth/repository"
	authservice "github.com/looply/looply-backend/internal/auth/service"
	companyevents "github.com/looply/looply-backend/internal/company/events"
	companyhandler "github.com/looply/looply-backend/internal/company/handler"
	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	companyservice "github.com/looply/looply-backend/internal/company/service"
	eodevents "github.com/looply/looply-backend/internal/eod/events"
	eodhandler "github.com/looply/looply-backend/internal/eod/handler"
	eodrepo "github.com/looply/looply-backend/internal/eod/repository"
	eodservice "github.com/looply/looply-backend/internal/eod/service"
	"github.com/looply/looply-backend/internal/server"
	"github.com/looply/looply-backend/pkg/config"
	"github.com/looply/looply-backend/pkg/kvstore"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
)

// App holds the wired object graph
type App struct {
	Users     *authrepo.UserRepository
	Companies *companyrepo.CompanyRepository
	Employees *companyrepo.EmployeeRepository
	Reports   *eodrepo.ReportRepository

	JWT     *jwt.Manager
	Auth    *authservice.AuthService
	Company *companyservice.CompanyService
	EOD     *eodservice.EODService

	AuthHandler    *authhandler.AuthHandler
	CompanyHandler *companyhandler.CompanyHandler
	EODHandler     *eodhandler.EODHandler
}

// New builds the application on top of store
func New(cfg *config.Config, store kvstore.Store, publisher messaging.EventPublisher, log *logger.Logger) *App {
	a := &App{
		Users:     authrepo.NewUserRepository(store),
		Companies: companyrepo.NewCompanyRepository(store),
		Employees: companyrepo.NewEmployeeRepository(store),
		Reports:   eodrepo.NewReportRepository(store),
		JWT:       jwt.NewManager(&cfg.JWT),
	}

	a.Auth = authservice.NewAuthService(a.Users, a.Companies, a.Employees, a.JWT, log.WithComponent("auth"))
	a.Company = companyservice.NewCompanyService(
		a.Companies,
		a.Employees,
		a.Users,
		companyevents.NewCompanyEventPublisher(publisher, log),
		log.WithComponent("company"),
	)
	a.EOD = eodservice.NewEODService(
		a.Reports,
		a.Companies,
		a.Employees,
		eodevents.NewReportEventPublisher(publisher, log),
		log.WithComponent("eod"),
	)

	a.AuthHandler = authhandler.NewAuthHandler(a.Auth, log)
	a.CompanyHandler = companyhandler.NewCompanyHandler(a.Company, a.Auth, log)
	a.EODHandler = eodhandler.NewEODHandler(a.EOD, log)
	return a
}

// WithClock points every service at the same time source
func (a *App) WithClock(now func() time.Time) *App {
	a.Auth.WithClock(now)
	a.Company.WithClock(now)
	a.EOD.WithClock(now)
	return a
}

// Router returns the HTTP API for this application
func (a *App) Router(cfg *config.Config, health map[string]server.HealthCheck, log *logger.Logger) http.Handler {
	return server.NewRouter(server.Deps{
		Auth:           a.AuthHandler,
		Company:        a.CompanyHandler,
		EOD:            a.EODHandler,
		Verifier:       a.JWT,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Health:         health,
	})
}
