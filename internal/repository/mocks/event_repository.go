// Package mocks 提供 repository 接口的 testify mock 实现
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/CcydtN/Touchpad-Emulator/internal/domain"
)

// EventRepository 是 repository.EventRepository 的 mock
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) IncrementCount(ctx context.Context, event string) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventRepository) Counts(ctx context.Context) (domain.EventCounts, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(domain.EventCounts)
	return counts, args.Error(1)
}

func (m *EventRepository) Publish(ctx context.Context, evt *domain.FeedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
