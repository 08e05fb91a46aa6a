// Package redis implements the identifier store on Redis. The counter lives
// under a single key advanced with INCR, and each binding is written once
// under a "url:"-prefixed key. Correctness under concurrent callers is
// delegated entirely to Redis: INCR and SETNX are linearizable, so the store
// needs no in-process locking and can be replicated freely.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akarpov/shortener/internal/base62"
	"github.com/akarpov/shortener/internal/entity"
)

const bindingKeyPrefix = "url:"

type URLRepository struct {
	client     *redis.Client
	counterKey string
}

// NewURLRepository seeds the counter key with the starting offset if it does
// not exist yet. SETNX makes restarts idempotent: a counter with allocations
// behind it is never reset, so previously issued codes cannot be reallocated.
func NewURLRepository(ctx context.Context, client *redis.Client, counterKey string, counterOffset uint64) (*URLRepository, error) {
	const op = "adapter.repository.redis.NewURLRepository"

	if err := client.SetNX(ctx, counterKey, counterOffset, 0).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to initialize counter: %w", op, err)
	}

	return &URLRepository{
		client:     client,
		counterKey: counterKey,
	}, nil
}

// Save allocates the next counter value, encodes it and persists the binding.
// A failed increment surfaces as entity.ErrCounterUnavailable with no binding
// written; Redis also refuses INCR at the int64 boundary, so counter
// exhaustion takes the same path.
func (r *URLRepository) Save(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.redis.URLRepository.Save"

	id, err := r.client.Incr(ctx, r.counterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, entity.ErrCounterUnavailable, err)
	}

	shortCode := base62.Encode(uint64(id))

	if err := r.client.Set(ctx, bindingKey(shortCode), originalURL, 0).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to write binding: %w", op, err)
	}

	return &entity.URL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		CreatedAt:   time.Now(),
	}, nil
}

// RetrieveByShortCode looks up the binding for shortCode. A missing key maps
// to entity.ErrURLNotFound; any other failure is a store error.
func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.redis.URLRepository.RetrieveByShortCode"

	originalURL, err := r.client.Get(ctx, bindingKey(shortCode)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %q: %w", op, shortCode, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to read binding: %w", op, err)
	}

	return &entity.URL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
	}, nil
}

func bindingKey(shortCode string) string {
	return bindingKeyPrefix + shortCode
}
