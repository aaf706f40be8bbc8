package redisstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/CcydtN/Touchpad-Emulator/internal/domain"
	"github.com/CcydtN/Touchpad-Emulator/internal/repository"
)

// RedisEventRepository 是 EventRepository 接口的 Redis 实现
type RedisEventRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisEventRepository 创建 RedisEventRepository 实例
func NewRedisEventRepository(client *redis.Client, keyPrefix string) *RedisEventRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisEventRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "tp:" // 默认前缀 "tp:" (touchpad)
	}
	return &RedisEventRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// --- Key Generation Helpers ---
func (r *RedisEventRepository) countsKey() string {
	return r.keyPrefix + "touch:counts"
}

// EventsChannel 返回发布触摸事件的频道名
func (r *RedisEventRepository) EventsChannel() string {
	return r.keyPrefix + "touch:events"
}

// IncrementCount 使用 HINCRBY 递增事件计数
func (r *RedisEventRepository) IncrementCount(ctx context.Context, event string) error {
	key := r.countsKey()
	if err := r.client.HIncrBy(ctx, key, event, 1).Err(); err != nil {
		return fmt.Errorf("redis: failed to increment count for %s on %s: %v: %w", event, key, err, repository.ErrUnavailable)
	}
	return nil
}

// Counts 读取全部事件计数
func (r *RedisEventRepository) Counts(ctx context.Context) (domain.EventCounts, error) {
	key := r.countsKey()
	raw, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: failed to get counts from %s: %v: %w", key, err, repository.ErrUnavailable)
	}
	counts := make(domain.EventCounts, len(raw))
	for event, v := range raw {
		n, parseErr := strconv.ParseInt(v, 10, 64)
		if parseErr != nil {
			logrus.Warnf("redis: ignoring malformed count %q for %s in %s", v, event, key)
			continue
		}
		counts[event] = n
	}
	return counts, nil
}

// Publish 把事件序列化为 JSON 并发布到事件频道
func (r *RedisEventRepository) Publish(ctx context.Context, evt *domain.FeedEvent) error {
	channel := r.EventsChannel()
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal event for publish: %w", err)
	}
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel":      channel,
			"payload_size": len(payload),
			"event":        evt.Event,
		}).WithError(err).Error("Redis Publish failed")
		return fmt.Errorf("redis: failed to publish event to channel %s: %v: %w", channel, err, repository.ErrUnavailable)
	}
	return nil
}
