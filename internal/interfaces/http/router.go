package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/timereg-api/internal/application/analytics"
	"github.com/jhoicas/timereg-api/internal/application/auth"
	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/internal/application/report"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/application/tenant"
	"github.com/jhoicas/timereg-api/internal/application/timer"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Directory   *tenant.Directory
	Catalog     *catalog.UseCase
	Timer       *timer.Manager
	Reports     *report.UseCase
	DashboardUC *analytics.DashboardUseCase
	Guard       *scope.Guard
	Policy      timesheet.Policy
	Revoker     ports.TokenRevoker  // opcional
	Gatherer    prometheus.Gatherer // opcional; nil = sin /metrics
	JWTSecret   string
	AuthRate    int // peticiones por minuto y por IP en /api/auth
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.Revoker)
	guard := func(op string) fiber.Handler { return RequireScope(deps.Guard, op) }

	// Auth (público, con límite de tasa)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	if deps.AuthRate > 0 {
		authGroup.Use(NewRateLimiter(deps.AuthRate).Handler())
	}
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/password-reset", authHandler.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, guard(scope.OpProfileRead), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth)

	// Empresas: listar, crear y seleccionar no exigen empresa activa.
	companyHandler := NewCompanyHandler(deps.Directory)
	companies := protected.Group("/companies")
	companies.Get("/", guard(scope.OpCompanyList), companyHandler.List)
	companies.Post("/", guard(scope.OpCompanyCreate), companyHandler.Create)
	companies.Get("/select", guard(scope.OpCompanyList), companyHandler.List)
	companies.Post("/select", guard(scope.OpCompanySwitch), companyHandler.Select)
	companies.Get("/active", guard(scope.OpCompanyRead), companyHandler.Active)
	companies.Put("/active", guard(scope.OpCompanyRename), companyHandler.Rename)
	companies.Post("/active/members", guard(scope.OpMemberAdd), companyHandler.AddMember)

	customerHandler := NewCustomerHandler(deps.Catalog)
	customers := protected.Group("/customers")
	customers.Post("/", guard(scope.OpCustomerCreate), customerHandler.Create)
	customers.Get("/", guard(scope.OpCustomerList), customerHandler.List)
	customers.Get("/:number", guard(scope.OpCustomerRead), customerHandler.GetByNumber)

	projectHandler := NewProjectHandler(deps.Catalog)
	projects := protected.Group("/projects")
	projects.Post("/", guard(scope.OpProjectCreate), projectHandler.Create)
	projects.Get("/", guard(scope.OpProjectList), projectHandler.List)
	projects.Get("/:number", guard(scope.OpProjectRead), projectHandler.GetByNumber)

	timerHandler := NewTimerHandler(deps.Timer)
	timerGroup := protected.Group("/timer")
	timerGroup.Get("/", guard(scope.OpTimerRead), timerHandler.Active)
	timerGroup.Post("/start", guard(scope.OpTimerStart), timerHandler.Start)
	timerGroup.Post("/:id/stop", guard(scope.OpTimerStop), timerHandler.Stop)

	reportHandler := NewReportHandler(deps.Reports)
	reports := protected.Group("/reports")
	reports.Get("/entries", guard(scope.OpReportRead), reportHandler.Entries)
	reports.Get("/entries.pdf", guard(scope.OpReportExport), reportHandler.ExportPDF)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Policy)
	protected.Get("/dashboard", guard(scope.OpDashboard), dashboardHandler.GetSummary)
}
