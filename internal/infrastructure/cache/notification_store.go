package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shop/backend/internal/application/payment"
)

const notificationKeyPrefix = "payment:notification:"

// RedisNotificationStore deduplicates gateway webhook notifications across
// instances with a SETNX per notification key.
type RedisNotificationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNotificationStore creates a Redis-backed notification store. TTL
// bounds how long a duplicate is recognized; the gateway stops retrying well
// before a day.
func NewRedisNotificationStore(client *redis.Client, ttl time.Duration) *RedisNotificationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisNotificationStore{client: client, ttl: ttl}
}

// MarkProcessed records the key atomically and reports whether this call was
// the first to see it
func (s *RedisNotificationStore) MarkProcessed(ctx context.Context, key string) (bool, error) {
	first, err := s.client.SetNX(ctx, notificationKeyPrefix+key, "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark notification as processed: %w", err)
	}
	return first, nil
}

var _ payment.NotificationStore = (*RedisNotificationStore)(nil)

type notificationEntry struct {
	expiresAt time.Time
}

// InMemoryNotificationStore deduplicates notifications within one process.
// For single-instance deployments and tests.
type InMemoryNotificationStore struct {
	mu      sync.Mutex
	entries map[string]notificationEntry
	ttl     time.Duration
}

// NewInMemoryNotificationStore creates an in-memory notification store
func NewInMemoryNotificationStore(ttl time.Duration) *InMemoryNotificationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InMemoryNotificationStore{
		entries: make(map[string]notificationEntry),
		ttl:     ttl,
	}
}

// MarkProcessed records the key and reports whether this call was the first
// to see it. Expired entries are pruned lazily on write.
func (s *InMemoryNotificationStore) MarkProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}

	if e, exists := s.entries[key]; exists && now.Before(e.expiresAt) {
		return false, nil
	}
	s.entries[key] = notificationEntry{expiresAt: now.Add(s.ttl)}
	return true, nil
}

var _ payment.NotificationStore = (*InMemoryNotificationStore)(nil)
