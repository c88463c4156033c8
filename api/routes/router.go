package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nmoralesdev/receiptdesk-backend/api/controllers"
	"github.com/nmoralesdev/receiptdesk-backend/api/middleware"
	"github.com/nmoralesdev/receiptdesk-backend/internal/auth"
	"github.com/nmoralesdev/receiptdesk-backend/internal/inventory"
	"github.com/nmoralesdev/receiptdesk-backend/internal/profile"
	"github.com/nmoralesdev/receiptdesk-backend/internal/receipts"
	"github.com/nmoralesdev/receiptdesk-backend/internal/reports"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/auth/session"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/config"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/logger"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/metrics"
	redisclient "github.com/nmoralesdev/receiptdesk-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Metrics      *metrics.HTTPMetrics
	Redis        *redisclient.Client
	Sessions     session.AccessSessionChecker
	HealthChecks map[string]controllers.Pinger

	AuthService      auth.Service
	RegisterService  auth.RegisterService
	InventoryService inventory.Service
	ReceiptService   receipts.Service
	ReportService    reports.Service
	ProfileService   profile.Service
	ReportLocation   *time.Location
}

// NewRouter assembles the chi router with the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	loc := deps.ReportLocation
	if loc == nil {
		loc = time.UTC
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.HealthChecks))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.Register(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.Login(deps.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Post("/auth/logout", controllers.Logout(deps.AuthService, logg))

		r.Post("/inventory", controllers.InventoryCreate(deps.InventoryService, logg))
		r.Get("/inventory", controllers.InventoryList(deps.InventoryService, logg))
		r.Get("/inventory/{itemID}", controllers.InventoryGet(deps.InventoryService, logg))
		r.Patch("/inventory/{itemID}", controllers.InventoryUpdate(deps.InventoryService, logg))
		r.Delete("/inventory/{itemID}", controllers.InventoryDelete(deps.InventoryService, logg))

		r.Post("/receipts", controllers.ReceiptCreate(deps.ReceiptService, logg))
		r.Get("/receipts", controllers.ReceiptList(deps.ReceiptService, logg))
		r.Get("/receipts/{receiptID}", controllers.ReceiptGet(deps.ReceiptService, logg))
		r.Post("/receipts/{receiptID}/items", controllers.ReceiptAddItem(deps.ReceiptService, logg))
		r.Patch("/receipts/{receiptID}/items/{lineID}", controllers.ReceiptUpdateQuantity(deps.ReceiptService, logg))
		r.Delete("/receipts/{receiptID}/items/{lineID}", controllers.ReceiptRemoveItem(deps.ReceiptService, logg))
		r.Post("/receipts/{receiptID}/finalize", controllers.ReceiptFinalize(deps.ReceiptService, logg))

		r.Get("/reports/sales", controllers.SalesReport(deps.ReportService, loc, logg))
		r.Get("/reports/sales/html", controllers.SalesReportHTML(deps.ReportService, loc, logg))

		r.Get("/profile", controllers.ProfileGet(deps.ProfileService, logg))
		r.Patch("/profile", controllers.ProfileUpdate(deps.ProfileService, logg))
		r.Post("/profile/logo/presign", controllers.ProfileLogoPresign(deps.ProfileService, logg))
	})

	return r
}
