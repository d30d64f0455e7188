package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mpratt/devtrail/internal/domain/history"
)

// HistoryRepository is a mock for repository.HistoryRepository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Archive(ctx context.Context, entries []history.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *HistoryRepository) Query(ctx context.Context, workspace string, opts history.QueryOptions) ([]history.Entry, error) {
	args := m.Called(ctx, workspace, opts)
	if list, ok := args.Get(0).([]history.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
