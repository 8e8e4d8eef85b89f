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
)

// IKeyedStore 定义带 TTL 的键值存储接口（抽象）
//
// Get reports absence through the found flag, not an error. Callers treat
// "not found" as a normal lookup miss.
type IKeyedStore interface {
	// Set 设置键值，ttl <= 0 时不过期
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键值
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Del 删除键
	Del(ctx context.Context, keys ...string) error
	// LPush 追加到列表头部
	LPush(ctx context.Context, key string, value string) error
	// LTrim 裁剪列表
	LTrim(ctx context.Context, key string, start, stop int64) error
}

// ISettingsStore 定义配置存储接口（无 TTL）
type ISettingsStore interface {
	// Get 获取配置值，缺失时返回默认值
	Get(ctx context.Context, key string, def string) string
	// Set 设置配置值
	Set(ctx context.Context, key string, value string) error
}
