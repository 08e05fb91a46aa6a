package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/akarpov/shortener/internal/entity"
)

const (
	testCounterName   = "global:url:id"
	testCounterOffset = 100000
)

var errUnknown = errors.New("unknown error")

var bindingColumns = []string{"short_code", "original_url", "created_at"}

func setupURLRepository(t testing.TB) (*URLRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() {
		db.Close()
	})

	mock.ExpectExec(`INSERT INTO counters`).
		WithArgs(testCounterName, uint64(testCounterOffset)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo, err := NewURLRepository(context.Background(), db, testCounterName, testCounterOffset)
	if err != nil {
		t.Fatal(err)
	}

	return repo, mock
}

func TestNewURLRepository(t *testing.T) {
	t.Run("counter init error", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatal(err)
		}
		db := sqlx.NewDb(mockDB, "sqlmock")
		t.Cleanup(func() {
			db.Close()
		})

		mock.ExpectExec(`INSERT INTO counters`).
			WithArgs(testCounterName, uint64(testCounterOffset)).
			WillReturnError(errUnknown)

		repo, err := NewURLRepository(context.Background(), db, testCounterName, testCounterOffset)

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, repo)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing counter is left untouched", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatal(err)
		}
		db := sqlx.NewDb(mockDB, "sqlmock")
		t.Cleanup(func() {
			db.Close()
		})

		// ON CONFLICT DO NOTHING: zero rows affected on restart
		mock.ExpectExec(`INSERT INTO counters`).
			WithArgs(testCounterName, uint64(testCounterOffset)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo, err := NewURLRepository(context.Background(), db, testCounterName, testCounterOffset)

		assert.NoError(t, err)
		assert.NotNil(t, repo)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestURLRepository_Save(t *testing.T) {
	t.Run("counter unavailable", func(t *testing.T) {
		repo, mock := setupURLRepository(t)

		mock.ExpectQuery(`UPDATE counters`).
			WithArgs(testCounterName).
			WillReturnError(errUnknown)

		url, err := repo.Save(context.TODO(), "https://example.com")

		assert.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrCounterUnavailable)
		assert.Nil(t, url)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing counter row", func(t *testing.T) {
		repo, mock := setupURLRepository(t)

		mock.ExpectQuery(`UPDATE counters`).
			WithArgs(testCounterName).
			WillReturnError(sql.ErrNoRows)

		url, err := repo.Save(context.TODO(), "https://example.com")

		assert.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrCounterUnavailable)
		assert.Nil(t, url)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short code exists", func(t *testing.T) {
		repo, mock := setupURLRepository(t)

		mock.ExpectQuery(`UPDATE counters`).
			WithArgs(testCounterName).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(100001))
		mock.ExpectQuery(`INSERT INTO bindings`).
			WithArgs("Q0v", "https://example.com").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		url, err := repo.Save(context.TODO(), "https://example.com")

		assert.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrShortCodeExists)
		assert.Nil(t, url)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupURLRepository(t)

		mock.ExpectQuery(`UPDATE counters`).
			WithArgs(testCounterName).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(100001))
		mock.ExpectQuery(`INSERT INTO bindings`).
			WithArgs("Q0v", "https://example.com").
			WillReturnRows(sqlmock.NewRows(bindingColumns).
				AddRow("Q0v", "https://example.com", time.Time{}))

		url, err := repo.Save(context.TODO(), "https://example.com")

		assert.NoError(t, err)
		assert.NotNil(t, url)
		assert.Equal(t, "Q0v", url.ShortCode)
		assert.Equal(t, "https://example.com", url.OriginalURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestURLRepository_RetrieveByShortCode(t *testing.T) {
	t.Run("url not found", func(t *testing.T) {
		repo, mock := setupURLRepository(t)

		mock.ExpectQuery(`SELECT (.+) FROM bindings`).
			WithArgs("Q0v").
			WillReturnError(sql.ErrNoRows)

		url, err := repo.RetrieveByShortCode(context.TODO(), "Q0v")

		assert.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrURLNotFound)
		assert.Nil(t, url)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupURLRepository(t)

		mock.ExpectQuery(`SELECT (.+) FROM bindings`).
			WithArgs("Q0v").
			WillReturnError(errUnknown)

		url, err := repo.RetrieveByShortCode(context.TODO(), "Q0v")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.NotErrorIs(t, err, entity.ErrURLNotFound)
		assert.Nil(t, url)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupURLRepository(t)

		mock.ExpectQuery(`SELECT (.+) FROM bindings`).
			WithArgs("Q0v").
			WillReturnRows(sqlmock.NewRows(bindingColumns).
				AddRow("Q0v", "https://example.com", time.Time{}))

		url, err := repo.RetrieveByShortCode(context.TODO(), "Q0v")

		assert.NoError(t, err)
		assert.NotNil(t, url)
		assert.Equal(t, "Q0v", url.ShortCode)
		assert.Equal(t, "https://example.com", url.OriginalURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
