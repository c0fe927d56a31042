// Package validation содержит разбор аргументов запросов к отчётам.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/paymentstats/internal/model"
)

var (
	// ErrInvalidDays возвращается, если количество дней не является неотрицательным целым числом.
	ErrInvalidDays = errors.New("invalid number of days")
	// ErrInvalidThreshold возвращается, если порог не является десятичным числом.
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrEmptyEmail возвращается для пустого email.
	ErrEmptyEmail = errors.New("empty email")
)

// ParseYearMonth разбирает месяц в формате YYYY-MM.
func ParseYearMonth(s string) (model.YearMonth, error) {
	return model.ParseYearMonth(s)
}

// ParseDays разбирает неотрицательное количество дней.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDays
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDays, s)
		}
	}

	days, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDays, s)
	}
	return days, nil
}

// ParseThreshold разбирает денежный порог. Экспоненциальная запись не принимается.
func ParseThreshold(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidThreshold, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidThreshold, s)
	}
	return d, nil
}

// ParseEmail проверяет, что email не пуст. Значение сравнивается с данными как есть, без нормализации регистра.
func ParseEmail(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyEmail
	}
	return s, nil
}
