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
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	actions []string
}

func (rs *recordingSink) Append(action string, entry Entry) {
	rs.actions = append(rs.actions, action)
}

type listStore struct {
	lists   map[string][]string
	pushErr error
	trims   int
}

func newListStore() *listStore {
	return &listStore{lists: map[string][]string{}}
}

func (ls *listStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (ls *listStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (ls *listStore) Del(ctx context.Context, keys ...string) error {
	return nil
}

func (ls *listStore) LPush(ctx context.Context, key, value string) error {
	if ls.pushErr != nil {
		return ls.pushErr
	}
	ls.lists[key] = append([]string{value}, ls.lists[key]...)
	return nil
}

func (ls *listStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	ls.trims++
	list := ls.lists[key]
	if stop >= int64(len(list)) {
		return nil
	}
	ls.lists[key] = list[start : stop+1]
	return nil
}

func TestMultiSink_FansOut(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}

	NewMultiSink(first, second).Append("plugin_install", Entry{Slug: "akismet"})

	assert.Equal(t, []string{"plugin_install"}, first.actions)
	assert.Equal(t, []string{"plugin_install"}, second.actions)
}

func TestRedisSink_AppendAndTrim(t *testing.T) {
	store := newListStore()
	sink := NewRedisSink(store, "trail", 2)

	sink.Append("plugin_install", Entry{Slug: "a", Status: "success"})
	sink.Append("plugin_update", Entry{Slug: "b", Status: "failed"})
	sink.Append("batch_rollback", Entry{BatchID: "batch_1", Status: "partial"})

	list := store.lists["trail"]
	require.Len(t, list, 2, "trail is capped at maxLen")

	// newest first
	var record redisRecord
	require.NoError(t, sonic.UnmarshalString(list[0], &record))
	assert.Equal(t, "batch_rollback", record.Action)
	assert.Equal(t, "batch_1", record.BatchID)
	assert.NotZero(t, record.Time, "entries are stamped on append")
}

func TestRedisSink_SwallowsStoreErrors(t *testing.T) {
	store := newListStore()
	store.pushErr = errors.New("connection refused")
	sink := NewRedisSink(store, "trail", 10)

	// must not panic or propagate
	sink.Append("plugin_install", Entry{Slug: "a"})
	assert.Empty(t, store.lists["trail"])
	assert.Equal(t, 0, store.trims, "no trim after a failed push")
}
