// Copyright 2025 Hangar Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"time"

	"github.com/go-hangar/hangar/pkg/log"
	"github.com/redis/go-redis/v9"
)

// RedisKeyedStore 基于 Redis 的 IKeyedStore 实现
type RedisKeyedStore struct {
	client *redis.Client
}

func NewRedisKeyedStore(client *redis.Client) *RedisKeyedStore {
	return &RedisKeyedStore{client: client}
}

func (s *RedisKeyedStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisKeyedStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisKeyedStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisKeyedStore) LPush(ctx context.Context, key string, value string) error {
	return s.client.LPush(ctx, key, value).Err()
}

func (s *RedisKeyedStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	return s.client.LTrim(ctx, key, start, stop).Err()
}

// RedisSettingsStore 基于 Redis 的 ISettingsStore 实现
type RedisSettingsStore struct {
	client *redis.Client
}

func NewRedisSettingsStore(client *redis.Client) *RedisSettingsStore {
	return &RedisSettingsStore{client: client}
}

func (s *RedisSettingsStore) Get(ctx context.Context, key string, def string) string {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return def
	}
	if err != nil {
		log.Warnw("settings read failed, falling back to default", "key", key, "error", err)
		return def
	}
	return val
}

func (s *RedisSettingsStore) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}
