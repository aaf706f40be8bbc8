package repository

import (
	"context"

	"github.com/CcydtN/Touchpad-Emulator/internal/domain"
)

// EventRepository 记录触摸事件的统计并把处理结果发布给其他进程。
// 可以由 Redis 或进程内存实现。
type EventRepository interface {
	// IncrementCount 原子地把 event 对应的计数加一
	IncrementCount(ctx context.Context, event string) error

	// Counts 返回所有事件的计数，没有任何记录时返回空 map
	Counts(ctx context.Context) (domain.EventCounts, error)

	// Publish 把处理后的事件发布到频道
	Publish(ctx context.Context, evt *domain.FeedEvent) error
}
