package service

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/paymentstats/internal/model"
)

var (
	// ErrInvalidArgument возвращается при некорректных аргументах запроса.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNegativeDays возвращается, если количество дней отрицательно.
	ErrNegativeDays = fmt.Errorf("%w: negative number of days", ErrInvalidArgument)
	// ErrInvalidYearMonth возвращается, если месяц вне диапазона 1..12.
	ErrInvalidYearMonth = fmt.Errorf("%w: %w", ErrInvalidArgument, model.ErrInvalidYearMonth)
	// ErrNilCollection возвращается, если источник платежей вернул nil вместо коллекции.
	ErrNilCollection = errors.New("payment source returned nil collection")
	// ErrInvalidClock возвращается, если часы вернули нулевое время.
	ErrInvalidClock = errors.New("clock returned zero time")
)
