// Package postgres implements the identifier store on Postgres. The counter
// is a single row in the counters table advanced with a one-statement
// UPDATE ... RETURNING, which is linearizable across concurrent callers the
// same way Redis INCR is; bindings live in their own table keyed by short
// code.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/akarpov/shortener/internal/base62"
	"github.com/akarpov/shortener/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

type bindingDB struct {
	ShortCode   string    `db:"short_code"`
	OriginalURL string    `db:"original_url"`
	CreatedAt   time.Time `db:"created_at"`
}

func (b *bindingDB) toEntity() *entity.URL {
	return &entity.URL{
		ShortCode:   b.ShortCode,
		OriginalURL: b.OriginalURL,
		CreatedAt:   b.CreatedAt,
	}
}

type URLRepository struct {
	db          *sqlx.DB
	counterName string
}

// NewURLRepository seeds the counter row with the starting offset if it does
// not exist yet. ON CONFLICT DO NOTHING keeps restarts idempotent: a counter
// with allocations behind it is never reset.
func NewURLRepository(ctx context.Context, db *sqlx.DB, counterName string, counterOffset uint64) (*URLRepository, error) {
	const op = "adapter.repository.postgres.NewURLRepository"
	const query = `INSERT INTO counters(name, value) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`

	if _, err := db.ExecContext(ctx, query, counterName, counterOffset); err != nil {
		return nil, fmt.Errorf("%s: failed to initialize counter: %w", op, err)
	}

	return &URLRepository{
		db:          db,
		counterName: counterName,
	}, nil
}

// Save allocates the next counter value, encodes it and persists the binding.
// A failed increment surfaces as entity.ErrCounterUnavailable with no binding
// written.
func (r *URLRepository) Save(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const incrQuery = `UPDATE counters SET value = value + 1 WHERE name = $1 RETURNING value`
	const insertQuery = `INSERT INTO bindings(short_code, original_url)
		VALUES ($1, $2)
		RETURNING short_code, original_url, created_at`

	var id int64
	if err := r.db.GetContext(ctx, &id, incrQuery, r.counterName); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, entity.ErrCounterUnavailable, err)
	}

	shortCode := base62.Encode(uint64(id))

	var binding bindingDB
	if err := r.db.GetContext(ctx, &binding, insertQuery, shortCode, originalURL); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into bindings table: %w", op, err)
	}

	return binding.toEntity(), nil
}

// RetrieveByShortCode looks up the binding for shortCode. A missing row maps
// to entity.ErrURLNotFound.
func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByShortCode"
	const query = `SELECT short_code, original_url, created_at FROM bindings WHERE short_code = $1`

	var binding bindingDB
	if err := r.db.GetContext(ctx, &binding, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %q: %w", op, shortCode, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from bindings table: %w", op, err)
	}

	return binding.toEntity(), nil
}
