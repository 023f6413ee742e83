package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Trade-Journal-Backend/internal/api/middleware"
	"github.com/ndewijer/Trade-Journal-Backend/internal/config"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
)

// Services bundles the services the HTTP layer delegates to.
type Services struct {
	System      *service.SystemService
	User        *service.UserService
	Stock       *service.StockService
	Transaction *service.TransactionService
	Analysis    *service.AnalysisService
	Price       *service.PriceService
	Export      *service.ExportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Use(custommiddleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	systemHandler := handlers.NewSystemHandler(services.System)
	userHandler := handlers.NewUserHandler(services.User)
	stockHandler := handlers.NewStockHandler(services.Stock, services.Transaction, services.Price)
	transactionHandler := handlers.NewTransactionHandler(services.Transaction)
	analysisHandler := handlers.NewAnalysisHandler(services.Analysis)
	exportHandler := handlers.NewExportHandler(services.Export)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Authenticate([]byte(cfg.Auth.JWTSecret), services.User))

			r.Route("/user", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Put("/me", userHandler.UpdateMe)
			})

			r.Route("/admin/user", func(r chi.Router) {
				r.Use(custommiddleware.RequireAdmin)
				r.Get("/", userHandler.Users)
				r.Post("/", userHandler.CreateUser)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Put("/", userHandler.UpdateUser)
					r.Delete("/", userHandler.DeleteUser)
				})
			})

			r.Route("/stock", func(r chi.Router) {
				r.Get("/", stockHandler.Stocks)
				r.Post("/", stockHandler.CreateStock)
				r.Post("/refresh", stockHandler.RefreshPrices)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", stockHandler.GetStock)
					r.Put("/", stockHandler.UpdateStock)
					r.Delete("/", stockHandler.DeleteStock)
					r.Put("/price", stockHandler.UpdatePrice)
					r.Post("/refresh", stockHandler.RefreshPrice)
					r.Get("/transaction", stockHandler.Transactions)
					r.Get("/lot", stockHandler.Lots)
				})
			})

			r.Route("/transaction", func(r chi.Router) {
				r.Get("/", transactionHandler.AllTransactions)
				r.Post("/buy", transactionHandler.CreateBuy)
				r.Post("/sell", transactionHandler.CreateSell)
				r.Get("/fee", transactionHandler.SuggestFee)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", transactionHandler.GetTransaction)
					r.Put("/", transactionHandler.UpdateTransaction)
					r.Delete("/", transactionHandler.DeleteTransaction)
				})
			})

			r.Route("/analysis", func(r chi.Router) {
				r.Get("/tag", analysisHandler.Tags)
				r.Get("/period", analysisHandler.Period)
			})

			r.Route("/export", func(r chi.Router) {
				r.Get("/transaction", exportHandler.Transactions)
			})
		})
	})

	return r
}
