// Package usecase contains testify mocks for the interfaces consumed by the
// usecase layer.
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/akarpov/shortener/internal/entity"
)

type MockURLRepository struct {
	mock.Mock
}

func NewMockURLRepository(t *testing.T) *MockURLRepository {
	m := &MockURLRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	return m
}

func (m *MockURLRepository) Save(ctx context.Context, originalURL string) (*entity.URL, error) {
	args := m.Called(ctx, originalURL)

	var url *entity.URL
	if args.Get(0) != nil {
		url = args.Get(0).(*entity.URL)
	}

	return url, args.Error(1)
}

func (m *MockURLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)

	var url *entity.URL
	if args.Get(0) != nil {
		url = args.Get(0).(*entity.URL)
	}

	return url, args.Error(1)
}
