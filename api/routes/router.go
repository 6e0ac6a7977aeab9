package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/knitinfo/knitinfo-backend/api/controllers"
	"github.com/knitinfo/knitinfo-backend/api/middleware"
	authsvc "github.com/knitinfo/knitinfo-backend/internal/auth"
	"github.com/knitinfo/knitinfo-backend/internal/companies"
	"github.com/knitinfo/knitinfo-backend/internal/importer"
	"github.com/knitinfo/knitinfo-backend/internal/priorities"
	"github.com/knitinfo/knitinfo-backend/internal/submissions"
	"github.com/knitinfo/knitinfo-backend/internal/visitors"
	pkgAuth "github.com/knitinfo/knitinfo-backend/pkg/auth"
	"github.com/knitinfo/knitinfo-backend/pkg/auth/session"
	"github.com/knitinfo/knitinfo-backend/pkg/config"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/metrics"
	"github.com/knitinfo/knitinfo-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Revoke(context.Context, string) error
}

// Deps carries everything the router mounts. Keeping it a struct saves the
// constructor from a parade of positional arguments.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions sessionManager

	AuthService        authsvc.Service
	CompaniesService   companies.Service
	ImportEngine       *importer.Engine
	SubmissionsService submissions.Service
	PrioritiesService  priorities.Service
	VisitorsService    visitors.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Metrics),
		middleware.CORS(cfg.CORS),
	)

	var limiterStore middleware.RateLimiterStore
	if deps.Redis != nil {
		limiterStore = deps.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	submitPolicy := middleware.NewAuthRateLimitPolicy(
		"submit",
		cfg.AuthRateLimit.SubmitWindow,
		cfg.AuthRateLimit.SubmitIPLimit,
		0,
	)

	var cachePinger controllers.Pinger
	if deps.Redis != nil {
		cachePinger = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, cachePinger, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/companies/category/{category}", controllers.ListCompaniesByCategory(deps.CompaniesService, logg))
		r.Get("/companies/{companyID}", controllers.GetCompany(deps.CompaniesService, logg))

		r.With(middleware.AuthRateLimit(submitPolicy, limiterStore, logg)).
			Post("/submissions", controllers.CreateSubmission(deps.SubmissionsService, logg))

		r.Route("/visitors", func(r chi.Router) {
			r.Get("/", controllers.VisitorCounts(deps.VisitorsService, logg))
			r.Post("/", controllers.RecordVisit(deps.VisitorsService, logg))
			r.Get("/active", controllers.ActiveVisitors(deps.VisitorsService, logg))
			r.Post("/active", controllers.PingActive(deps.VisitorsService, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
				Post("/login", controllers.AdminLogin(deps.AuthService, logg))
			if !cfg.App.IsProd() {
				r.Post("/register", controllers.AdminRegister(deps.AuthService, logg))
			}
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Post("/logout", controllers.AdminLogout(deps.AuthService, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(pkgAuth.RoleAdmin, logg))

		r.Post("/import", controllers.ImportCategory(deps.ImportEngine, cfg.Import, logg))

		r.Route("/companies", func(r chi.Router) {
			r.Get("/search", controllers.SearchCompanies(deps.CompaniesService, logg))
			r.Post("/", controllers.CreateCompany(deps.CompaniesService, logg))
			r.Get("/{companyID}", controllers.GetCompany(deps.CompaniesService, logg))
			r.Put("/{companyID}", controllers.UpdateCompany(deps.CompaniesService, logg))
			r.Delete("/{companyID}", controllers.DeleteCompany(deps.CompaniesService, logg))
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", controllers.ListSubmissions(deps.SubmissionsService, logg))
			r.Get("/{submissionID}", controllers.GetSubmission(deps.SubmissionsService, logg))
			r.Post("/{submissionID}/approve", controllers.ApproveSubmission(deps.SubmissionsService, logg))
			r.Put("/{submissionID}/status", controllers.SetSubmissionStatus(deps.SubmissionsService, logg))
		})

		r.Route("/priorities", func(r chi.Router) {
			r.Get("/", controllers.ListPriorities(deps.PrioritiesService, logg))
			r.Post("/", controllers.SetPriority(deps.PrioritiesService, logg))
			r.Get("/{priorityID}", controllers.GetPriority(deps.PrioritiesService, logg))
			r.Delete("/{priorityID}", controllers.DeletePriority(deps.PrioritiesService, logg))
		})
	})

	return r
}
