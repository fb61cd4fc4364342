package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gofoodhq/settlement/internal/adapter/http/handler"
	"github.com/gofoodhq/settlement/internal/adapter/http/middleware"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FundingHandler        *handler.FundingHandler
	PayoutHandler         *handler.PayoutHandler
	ReconciliationHandler *handler.ReconciliationHandler
	WebhookHandler        *handler.WebhookHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	RateLimiter           *middleware.RateLimiter
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Provider webhooks verify their own signatures; idempotency keys do
	// not apply because providers choose their own retry semantics.
	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/paystack", cfg.WebhookHandler.Paystack)
		r.Post("/monnify", cfg.WebhookHandler.Monnify)
	})

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Funding
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/fund", cfg.FundingHandler.FundWallet)
		})
		r.Post("/payments/verify", cfg.FundingHandler.VerifyPayment)

		// Payouts
		r.Route("/payouts", func(r chi.Router) {
			r.Post("/", cfg.PayoutHandler.Create)
			r.Get("/{id}", cfg.PayoutHandler.Get)
			r.Get("/reference/{reference}", cfg.PayoutHandler.GetByReference)
		})

		// Reconciliation
		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/report", cfg.ReconciliationHandler.Report)
			r.Get("/unmatched", cfg.ReconciliationHandler.ListUnmatched)
			r.Post("/unmatched/{id}/resolve", cfg.ReconciliationHandler.ResolveUnmatched)
			r.Get("/payouts", cfg.ReconciliationHandler.ListPayouts)
		})
	})

	return r
}
