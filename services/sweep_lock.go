package services

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const sweepLockKey = "reminder_sweep_lock"

// RedisSweepLock serializes reminder sweeps across processes with a SETNX
// lock. The TTL covers a crashed holder; Release frees it early.
type RedisSweepLock struct {
	client *redis.Client
}

func NewRedisSweepLock(client *redis.Client) *RedisSweepLock {
	return &RedisSweepLock{client: client}
}

func (l *RedisSweepLock) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, sweepLockKey, time.Now().Unix(), ttl).Result()
}

func (l *RedisSweepLock) Release(ctx context.Context) {
	if err := l.client.Del(ctx, sweepLockKey).Err(); err != nil {
		log.Printf("Failed to release sweep lock: %v", err)
	}
}
