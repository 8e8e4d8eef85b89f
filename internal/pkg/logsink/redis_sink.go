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

package logsink

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/go-hangar/hangar/pkg/cache"
	"github.com/go-hangar/hangar/pkg/log"
)

type redisRecord struct {
	Action string `json:"action"`
	Entry
}

// RedisSink keeps a capped activity trail in a Redis list. Failures are
// logged and swallowed; the caller's result is never affected.
type RedisSink struct {
	store  cache.IKeyedStore
	key    string
	maxLen int64
}

func NewRedisSink(store cache.IKeyedStore, key string, maxLen int64) *RedisSink {
	return &RedisSink{store: store, key: key, maxLen: maxLen}
}

func (rs *RedisSink) Append(action string, entry Entry) {
	entry = stamp(entry)
	raw, err := sonic.MarshalString(redisRecord{Action: action, Entry: entry})
	if err != nil {
		log.Warnw("activity record marshal failed", "action", action, "error", err)
		return
	}

	ctx := context.Background()
	if err := rs.store.LPush(ctx, rs.key, raw); err != nil {
		log.Warnw("activity record append failed", "action", action, "error", err)
		return
	}
	if rs.maxLen > 0 {
		if err := rs.store.LTrim(ctx, rs.key, 0, rs.maxLen-1); err != nil {
			log.Warnw("activity trail trim failed", "error", err)
		}
	}
}
