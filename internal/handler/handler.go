// Package handler содержит HTTP-обработчики API отчётов по платежам.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/paymentstats/internal/middleware"
	"github.com/mmeshcher/paymentstats/internal/model"
	"github.com/mmeshcher/paymentstats/internal/service"
	"github.com/mmeshcher/paymentstats/internal/validation"
)

// Service определяет контракт запросов к платежам, используемый HTTP-обработчиками.
type Service interface {
	PaymentsSortedByDateDesc(ctx context.Context) ([]model.Payment, error)
	PaymentsForMonth(ctx context.Context, ym model.YearMonth) ([]model.Payment, error)
	PaymentsForCurrentMonth(ctx context.Context) ([]model.Payment, error)
	PaymentsForLastDays(ctx context.Context, days int) ([]model.Payment, error)
	PaymentsWithSingleItem(ctx context.Context) ([]model.Payment, error)
	ProductsSoldInCurrentMonth(ctx context.Context) ([]string, error)
	TotalForMonth(ctx context.Context, ym model.YearMonth) (decimal.Decimal, error)
	DiscountForMonth(ctx context.Context, ym model.YearMonth) (decimal.Decimal, error)
	ItemsForUserEmail(ctx context.Context, email string) ([]model.PaymentItem, error)
	PaymentsWithValueOver(ctx context.Context, threshold decimal.Decimal) ([]model.Payment, error)
}

// Handler реализует HTTP-обработчики API отчётов.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

type itemResponse struct {
	Name         string          `json:"name"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	FinalPrice   decimal.Decimal `json:"final_price"`
}

type paymentResponse struct {
	PaidAt string          `json:"paid_at"`
	Email  string          `json:"email"`
	Name   string          `json:"name,omitempty"`
	Items  []itemResponse  `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

type amountResponse struct {
	YearMonth string          `json:"year_month"`
	Amount    decimal.Decimal `json:"amount"`
}

func toItemResponses(items []model.PaymentItem) []itemResponse {
	resp := make([]itemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, itemResponse{
			Name:         it.Name,
			RegularPrice: it.RegularPrice,
			FinalPrice:   it.FinalPrice,
		})
	}
	return resp
}

func toPaymentResponses(payments []model.Payment) []paymentResponse {
	resp := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, paymentResponse{
			PaidAt: p.PaidAt.Format(time.RFC3339Nano),
			Email:  p.User.Email,
			Name:   p.User.Name,
			Items:  toItemResponses(p.Items),
			Total:  p.Total(),
		})
	}
	return resp
}

// Health сообщает, что сервис запущен.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GetPayments возвращает все платежи от новых к старым.
func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.PaymentsSortedByDateDesc(r.Context())
	h.writePayments(w, "get payments", payments, err)
}

// GetPaymentsForMonth возвращает платежи за месяц из пути запроса.
func (h *Handler) GetPaymentsForMonth(w http.ResponseWriter, r *http.Request) {
	ym, err := validation.ParseYearMonth(chi.URLParam(r, "yearMonth"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	payments, err := h.service.PaymentsForMonth(r.Context(), ym)
	h.writePayments(w, "get payments for month", payments, err, zap.Stringer("yearMonth", ym))
}

// GetPaymentsForCurrentMonth возвращает платежи текущего месяца.
func (h *Handler) GetPaymentsForCurrentMonth(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.PaymentsForCurrentMonth(r.Context())
	h.writePayments(w, "get payments for current month", payments, err)
}

// GetPaymentsForLastDays возвращает платежи за последние N дней.
func (h *Handler) GetPaymentsForLastDays(w http.ResponseWriter, r *http.Request) {
	days, err := validation.ParseDays(chi.URLParam(r, "days"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	payments, err := h.service.PaymentsForLastDays(r.Context(), days)
	h.writePayments(w, "get payments for last days", payments, err, zap.Int("days", days))
}

// GetSingleItemPayments возвращает платежи ровно с одной позицией.
func (h *Handler) GetSingleItemPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.PaymentsWithSingleItem(r.Context())
	h.writePayments(w, "get single item payments", payments, err)
}

// GetPaymentsOver возвращает платежи, сумма которых строго больше порога.
func (h *Handler) GetPaymentsOver(w http.ResponseWriter, r *http.Request) {
	threshold, err := validation.ParseThreshold(chi.URLParam(r, "threshold"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	payments, err := h.service.PaymentsWithValueOver(r.Context(), threshold)
	h.writePayments(w, "get payments over threshold", payments, err, zap.Stringer("threshold", threshold))
}

// GetProductsForCurrentMonth возвращает названия товаров, проданных в текущем месяце.
func (h *Handler) GetProductsForCurrentMonth(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ProductsSoldInCurrentMonth(r.Context())
	if err != nil {
		h.writeError(w, "get products for current month", err)
		return
	}

	if len(products) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, products)
}

// GetMonthTotal возвращает сумму продаж за месяц.
func (h *Handler) GetMonthTotal(w http.ResponseWriter, r *http.Request) {
	h.writeAmount(w, r, "get month total", h.service.TotalForMonth)
}

// GetMonthDiscount возвращает сумму скидок за месяц.
func (h *Handler) GetMonthDiscount(w http.ResponseWriter, r *http.Request) {
	h.writeAmount(w, r, "get month discount", h.service.DiscountForMonth)
}

// GetItemsForUser возвращает позиции всех платежей пользователя из параметра email.
func (h *Handler) GetItemsForUser(w http.ResponseWriter, r *http.Request) {
	email, err := validation.ParseEmail(r.URL.Query().Get("email"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	items, err := h.service.ItemsForUserEmail(r.Context(), email)
	if err != nil {
		h.writeError(w, "get items for user", err, zap.String("email", email))
		return
	}

	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, toItemResponses(items))
}

func (h *Handler) writeAmount(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	query func(context.Context, model.YearMonth) (decimal.Decimal, error),
) {
	ym, err := validation.ParseYearMonth(chi.URLParam(r, "yearMonth"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	amount, err := query(r.Context(), ym)
	if err != nil {
		h.writeError(w, op, err, zap.Stringer("yearMonth", ym))
		return
	}

	h.writeJSON(w, amountResponse{
		YearMonth: ym.String(),
		Amount:    amount,
	})
}

func (h *Handler) writePayments(w http.ResponseWriter, op string, payments []model.Payment, err error, fields ...zap.Field) {
	if err != nil {
		h.writeError(w, op, err, fields...)
		return
	}

	if len(payments) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, toPaymentResponses(payments))
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error, fields ...zap.Field) {
	if errors.Is(err, service.ErrInvalidArgument) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.logger.Error(op+" error", append(fields, zap.Error(err))...)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}
