// Package service реализует запросы и агрегации над коллекцией платежей.
package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/paymentstats/internal/model"
)

// PaymentSource описывает источник полной коллекции платежей.
type PaymentSource interface {
	FindAll(ctx context.Context) ([]model.Payment, error)
}

// Clock описывает источник текущего времени.
type Clock interface {
	Now() time.Time
}

// Service выполняет запросы только на чтение. Каждый вызов заново читает источник и не хранит состояния.
type Service struct {
	source PaymentSource
	clock  Clock
}

// NewService создаёт сервис с указанными источником платежей и часами.
func NewService(source PaymentSource, clock Clock) *Service {
	return &Service{
		source: source,
		clock:  clock,
	}
}

func (s *Service) findAll(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.source.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	if payments == nil {
		return nil, ErrNilCollection
	}
	return payments, nil
}

func (s *Service) now() (time.Time, error) {
	now := s.clock.Now()
	if now.IsZero() {
		return time.Time{}, ErrInvalidClock
	}
	return now, nil
}

// PaymentsSortedByDateDesc возвращает все платежи, отсортированные по дате по убыванию.
// Платежи с одинаковой датой сохраняют порядок источника.
func (s *Service) PaymentsSortedByDateDesc(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(payments)
	slices.SortStableFunc(sorted, func(a, b model.Payment) int {
		return b.PaidAt.Compare(a.PaidAt)
	})
	return sorted, nil
}

// PaymentsForMonth возвращает платежи указанного месяца.
func (s *Service) PaymentsForMonth(ctx context.Context, ym model.YearMonth) ([]model.Payment, error) {
	if !ym.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidYearMonth, ym)
	}

	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(payments, func(p model.Payment) bool {
		return ym.Contains(p.PaidAt)
	}), nil
}

// PaymentsForCurrentMonth возвращает платежи текущего месяца по часам сервиса.
func (s *Service) PaymentsForCurrentMonth(ctx context.Context) ([]model.Payment, error) {
	now, err := s.now()
	if err != nil {
		return nil, err
	}
	return s.PaymentsForMonth(ctx, model.YearMonthOf(now))
}

// PaymentsForLastDays возвращает платежи, совершённые строго позже момента "сейчас минус days дней".
func (s *Service) PaymentsForLastDays(ctx context.Context, days int) ([]model.Payment, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDays, days)
	}

	now, err := s.now()
	if err != nil {
		return nil, err
	}
	since := now.AddDate(0, 0, -days)

	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(payments, func(p model.Payment) bool {
		return p.PaidAt.After(since)
	}), nil
}

// PaymentsWithSingleItem возвращает множество платежей ровно с одной позицией.
func (s *Service) PaymentsWithSingleItem(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(filter(payments, func(p model.Payment) bool {
		return len(p.Items) == 1
	})), nil
}

// ProductsSoldInCurrentMonth возвращает отсортированные уникальные названия товаров, проданных в текущем месяце.
func (s *Service) ProductsSoldInCurrentMonth(ctx context.Context) ([]string, error) {
	payments, err := s.PaymentsForCurrentMonth(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, p := range payments {
		for _, item := range p.Items {
			if _, ok := seen[item.Name]; ok {
				continue
			}
			seen[item.Name] = struct{}{}
			names = append(names, item.Name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// TotalForMonth возвращает сумму итоговых цен всех позиций за указанный месяц.
func (s *Service) TotalForMonth(ctx context.Context, ym model.YearMonth) (decimal.Decimal, error) {
	return s.sumForMonth(ctx, ym, func(item model.PaymentItem) decimal.Decimal {
		return item.FinalPrice
	})
}

// DiscountForMonth возвращает сумму скидок за указанный месяц. Результат не ограничивается снизу нулём.
func (s *Service) DiscountForMonth(ctx context.Context, ym model.YearMonth) (decimal.Decimal, error) {
	return s.sumForMonth(ctx, ym, model.PaymentItem.Discount)
}

func (s *Service) sumForMonth(ctx context.Context, ym model.YearMonth, value func(model.PaymentItem) decimal.Decimal) (decimal.Decimal, error) {
	payments, err := s.PaymentsForMonth(ctx, ym)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, p := range payments {
		for _, item := range p.Items {
			sum = sum.Add(value(item))
		}
	}
	return sum, nil
}

// ItemsForUserEmail возвращает позиции всех платежей пользователя с указанным email.
// Порядок платежей и позиций внутри них совпадает с порядком источника.
func (s *Service) ItemsForUserEmail(ctx context.Context, email string) ([]model.PaymentItem, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.PaymentItem, 0)
	for _, p := range payments {
		if p.User.Email == email {
			items = append(items, p.Items...)
		}
	}
	return items, nil
}

// PaymentsWithValueOver возвращает множество платежей, сумма которых строго больше threshold.
func (s *Service) PaymentsWithValueOver(ctx context.Context, threshold decimal.Decimal) ([]model.Payment, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(filter(payments, func(p model.Payment) bool {
		return p.Total().GreaterThan(threshold)
	})), nil
}

func filter(payments []model.Payment, keep func(model.Payment) bool) []model.Payment {
	res := make([]model.Payment, 0)
	for _, p := range payments {
		if keep(p) {
			res = append(res, p)
		}
	}
	return res
}

// distinct убирает повторы по значению, оставляя первое вхождение.
func distinct(payments []model.Payment) []model.Payment {
	seen := make(map[string]struct{}, len(payments))
	res := make([]model.Payment, 0, len(payments))
	for _, p := range payments {
		key := p.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, p)
	}
	return res
}
