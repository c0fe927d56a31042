// Package repository содержит источники платежей: PostgreSQL и хранилище в памяти.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/paymentstats/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrOrphanItem возвращается, если позиция ссылается на отсутствующий платёж.
var ErrOrphanItem = errors.New("payment item without payment")

// PostgresRepository предоставляет доступ к платежам в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет fn при временных ошибках БД с задержками из r.delays.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	return retry(ctx, r.delays, fn)
}

func retry(ctx context.Context, delays []time.Duration, fn func() error) error {
	var err error
	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(delays) {
			break
		}

		timer := time.NewTimer(delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// FindAll возвращает все платежи с позициями и покупателями.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.withRetry(ctx, func() error {
		var err error
		payments, err = r.findAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PostgresRepository) findAll(ctx context.Context) ([]model.Payment, error) {
	// Оба запроса читают один снимок данных.
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT p.id, p.paid_at, p.time_zone, u.email, u.name
		 FROM payments p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}

	payments := make([]model.Payment, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id       int64
			paidAt   time.Time
			timeZone string
			user     model.User
		)
		if err := rows.Scan(&id, &paidAt, &timeZone, &user.Email, &user.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan payment: %w", err)
		}

		loc, err := time.LoadLocation(timeZone)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("payment %d: %w", id, err)
		}

		index[id] = len(payments)
		payments = append(payments, model.Payment{
			PaidAt: paidAt.In(loc),
			User:   user,
			Items:  make([]model.PaymentItem, 0),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT payment_id, name, regular_price::text, final_price::text
		 FROM payment_items
		 ORDER BY payment_id, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("select payment items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			paymentID    int64
			name         string
			regularPrice string
			finalPrice   string
		)
		if err := rows.Scan(&paymentID, &name, &regularPrice, &finalPrice); err != nil {
			return nil, fmt.Errorf("scan payment item: %w", err)
		}

		i, ok := index[paymentID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrOrphanItem, paymentID)
		}

		regular, err := decimal.NewFromString(regularPrice)
		if err != nil {
			return nil, fmt.Errorf("parse regular price: %w", err)
		}
		final, err := decimal.NewFromString(finalPrice)
		if err != nil {
			return nil, fmt.Errorf("parse final price: %w", err)
		}

		payments[i].Items = append(payments[i].Items, model.PaymentItem{
			Name:         name,
			RegularPrice: regular,
			FinalPrice:   final,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return payments, nil
}
