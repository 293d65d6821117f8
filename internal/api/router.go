// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"cryptoex/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
// metricsHandler is mounted at /metrics when non-nil.
func NewRouter(exchangeHandler *handler.ExchangeHandler, metricsHandler http.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(requestLogger(logger))                      // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/currencies", func(r chi.Router) {
		r.Post("/", exchangeHandler.AddCurrency)
		r.Get("/", exchangeHandler.ListCurrencies)
		r.Get("/{currencyName}", exchangeHandler.GetCurrency)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", exchangeHandler.RegisterUser)
		r.Get("/{userName}", exchangeHandler.GetUser)
		r.Get("/{userName}/operations", exchangeHandler.GetOperations)
	})

	r.Post("/trades", exchangeHandler.Trade)

	return r
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("HTTP request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
