package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	custommiddleware "github.com/mmeshcher/paymentstats/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware API отчётов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/api/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Route("/api/payments", func(r chi.Router) {
			r.Get("/", h.GetPayments)
			r.Get("/month/{yearMonth}", h.GetPaymentsForMonth)
			r.Get("/current-month", h.GetPaymentsForCurrentMonth)
			r.Get("/last-days/{days}", h.GetPaymentsForLastDays)
			r.Get("/single-item", h.GetSingleItemPayments)
			r.Get("/over/{threshold}", h.GetPaymentsOver)
		})

		r.Get("/api/products/current-month", h.GetProductsForCurrentMonth)

		r.Route("/api/reports/{yearMonth}", func(r chi.Router) {
			r.Get("/total", h.GetMonthTotal)
			r.Get("/discount", h.GetMonthDiscount)
		})

		r.Get("/api/items", h.GetItemsForUser)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
