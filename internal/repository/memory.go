package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/mmeshcher/paymentstats/internal/model"
)

// ErrNilPayments возвращается, если файл платежей содержит null вместо массива.
var ErrNilPayments = errors.New("payments file contains null instead of an array")

// MemoryRepository хранит платежи в памяти. Безопасен для конкурентного чтения.
type MemoryRepository struct {
	mu       sync.RWMutex
	payments []model.Payment
}

// NewMemoryRepository создаёт хранилище с копией переданных платежей.
func NewMemoryRepository(payments []model.Payment) *MemoryRepository {
	return &MemoryRepository{payments: clonePayments(payments)}
}

// LoadMemoryRepository читает JSON-массив платежей из файла.
func LoadMemoryRepository(path string) (*MemoryRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payments file: %w", err)
	}

	var payments []model.Payment
	if err := json.Unmarshal(data, &payments); err != nil {
		return nil, fmt.Errorf("decode payments file: %w", err)
	}
	if payments == nil {
		return nil, fmt.Errorf("decode payments file: %w", ErrNilPayments)
	}

	return NewMemoryRepository(payments), nil
}

// FindAll возвращает копию всех платежей.
func (r *MemoryRepository) FindAll(_ context.Context) ([]model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clonePayments(r.payments), nil
}

// Close ничего не делает и нужен для единообразия с PostgresRepository.
func (r *MemoryRepository) Close() error {
	return nil
}

func clonePayments(in []model.Payment) []model.Payment {
	out := make([]model.Payment, 0, len(in))
	for _, p := range in {
		items := slices.Clone(p.Items)
		if items == nil {
			items = []model.PaymentItem{}
		}
		p.Items = items
		out = append(out, p)
	}
	return out
}
