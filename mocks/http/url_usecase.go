// Package http contains testify mocks for the interfaces consumed by the
// HTTP delivery layer.
package http

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/akarpov/shortener/internal/entity"
)

type MockURLUseCase struct {
	mock.Mock
}

func NewMockURLUseCase(t *testing.T) *MockURLUseCase {
	m := &MockURLUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	return m
}

func (m *MockURLUseCase) ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	args := m.Called(ctx, originalURL)

	var url *entity.URL
	if args.Get(0) != nil {
		url = args.Get(0).(*entity.URL)
	}

	return url, args.Error(1)
}

func (m *MockURLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)

	var url *entity.URL
	if args.Get(0) != nil {
		url = args.Get(0).(*entity.URL)
	}

	return url, args.Error(1)
}
