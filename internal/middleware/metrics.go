package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/eggmarket/internal/metrics"
)

// Metrics учитывает запросы по шаблону маршрута chi, чтобы идентификаторы заказов
// не попадали в метки.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					pattern = p
				}
			}

			ms := float64(time.Since(start).Microseconds()) / 1000
			m.ObserveRequest(pattern, strconv.Itoa(rec.statusCode()), ms)
		})
	}
}
