// Package memorystate 提供进程内的 EventRepository，在未配置 Redis 时使用。
package memorystate

import (
	"context"
	"sync"

	"github.com/CcydtN/Touchpad-Emulator/internal/domain"
)

// MemoryEventRepository 在内存中计数。单进程部署没有其他订阅方，Publish 不做任何事。
type MemoryEventRepository struct {
	mu     sync.RWMutex
	counts domain.EventCounts
}

// NewMemoryEventRepository 创建 MemoryEventRepository 实例
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{counts: make(domain.EventCounts)}
}

func (r *MemoryEventRepository) IncrementCount(_ context.Context, event string) error {
	r.mu.Lock()
	r.counts[event]++
	r.mu.Unlock()
	return nil
}

// Counts 返回计数的副本
func (r *MemoryEventRepository) Counts(_ context.Context) (domain.EventCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(domain.EventCounts, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out, nil
}

func (r *MemoryEventRepository) Publish(_ context.Context, _ *domain.FeedEvent) error {
	return nil
}
