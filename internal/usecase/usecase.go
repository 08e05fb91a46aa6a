package usecase

import (
	"context"
	"fmt"

	"github.com/akarpov/shortener/internal/entity"
)

type urlRepository interface {
	Save(ctx context.Context, originalURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
}

type URLUseCase struct {
	urlRepo urlRepository
}

func New(urlRepo urlRepository) *URLUseCase {
	return &URLUseCase{
		urlRepo: urlRepo,
	}
}

// ShortenURL allocates a fresh short code for originalURL. Allocation is a
// single pass: the code is derived from the store's counter, so there is no
// collision-retry loop and a failure is surfaced to the caller as-is.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	url, err := uc.urlRepo.Save(ctx, originalURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
	}

	return url, nil
}

// ResolveShortCode returns the binding for shortCode, or an error wrapping
// entity.ErrURLNotFound when no such binding exists.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	return url, nil
}
