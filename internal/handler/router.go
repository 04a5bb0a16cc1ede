package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	custommiddleware "github.com/mmeshcher/eggmarket/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса заказов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.Recoverer(h.logger))
	if h.metrics != nil {
		r.Use(custommiddleware.Metrics(h.metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Encoding", custommiddleware.RequestIDHeader},
		ExposedHeaders: []string{custommiddleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(custommiddleware.GzipMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.SubmitOrder)
		r.Get("/orders/{orderId}", h.GetOrder)

		r.Route("/admin/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Patch("/{orderId}", h.UpdateOrderStatus)
		})
	})

	r.Get("/health", h.Health)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Get("/*", h.Static)
	r.Head("/*", h.Static)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	return r
}
