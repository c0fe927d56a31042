package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidYearMonth возвращается, если строку не удалось разобрать как год-месяц.
var ErrInvalidYearMonth = errors.New("invalid year-month")

// YearMonth идентифицирует календарный месяц конкретного года.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf возвращает год и месяц момента t в его собственной временной зоне.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth разбирает строку вида "2024-03".
func ParseYearMonth(s string) (YearMonth, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(year) != 4 || len(month) != 2 || !isDigits(year) || !isDigits(month) {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}

	ym := YearMonth{Year: y, Month: time.Month(m)}
	if !ym.Valid() {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return ym, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Valid сообщает, что месяц лежит в диапазоне 1..12.
func (ym YearMonth) Valid() bool {
	return ym.Month >= time.January && ym.Month <= time.December
}

// Contains сообщает, попадает ли момент t в этот месяц. Сравнивается пара (год, месяц) целиком.
func (ym YearMonth) Contains(t time.Time) bool {
	return YearMonthOf(t) == ym
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
