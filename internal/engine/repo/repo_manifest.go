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

package repo

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-hangar/hangar/internal/engine/consts"
	"github.com/go-hangar/hangar/internal/engine/model"
	"github.com/go-hangar/hangar/pkg/cache"
	"github.com/go-hangar/hangar/pkg/log"
)

// IManifestRepository 批次清单持久化
type IManifestRepository interface {
	// SaveManifest 以 TTL 写入清单
	SaveManifest(ctx context.Context, manifest *model.BatchManifest, ttl time.Duration) error
	// GetManifest 读取清单；缺失或无法解析时 found=false，不作为错误
	GetManifest(ctx context.Context, batchID string) (manifest *model.BatchManifest, found bool)
	// DeleteManifest 删除清单
	DeleteManifest(ctx context.Context, batchID string) error
	// GetActiveIndex 读取当前有效批次 ID 索引
	GetActiveIndex(ctx context.Context) []string
	// SetActiveIndex 整体重写索引
	SetActiveIndex(ctx context.Context, batchIDs []string) error
}

// ManifestRepo 基于带 TTL 的键值存储 + 配置存储的实现
type ManifestRepo struct {
	store    cache.IKeyedStore
	settings cache.ISettingsStore
}

func NewManifestRepo(store cache.IKeyedStore, settings cache.ISettingsStore) IManifestRepository {
	return &ManifestRepo{store: store, settings: settings}
}

func manifestKey(batchID string) string {
	return consts.ManifestKeyPrefix + batchID
}

func (mr *ManifestRepo) SaveManifest(ctx context.Context, manifest *model.BatchManifest, ttl time.Duration) error {
	raw, err := sonic.MarshalString(manifest)
	if err != nil {
		return err
	}
	return mr.store.Set(ctx, manifestKey(manifest.BatchID), raw, ttl)
}

func (mr *ManifestRepo) GetManifest(ctx context.Context, batchID string) (*model.BatchManifest, bool) {
	raw, found, err := mr.store.Get(ctx, manifestKey(batchID))
	if err != nil {
		log.Warnw("manifest read failed", "batchId", batchID, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var manifest model.BatchManifest
	if err := sonic.UnmarshalString(raw, &manifest); err != nil || !manifest.Valid() {
		// 无法解析的值按不存在处理
		log.Warnw("manifest value is malformed", "batchId", batchID)
		return nil, false
	}
	return &manifest, true
}

func (mr *ManifestRepo) DeleteManifest(ctx context.Context, batchID string) error {
	return mr.store.Del(ctx, manifestKey(batchID))
}

func (mr *ManifestRepo) GetActiveIndex(ctx context.Context) []string {
	raw := mr.settings.Get(ctx, consts.ActiveBatchIndexKey, "[]")

	var ids []string
	if err := sonic.UnmarshalString(raw, &ids); err != nil {
		log.Warnw("active batch index is malformed, resetting", "error", err)
		return []string{}
	}
	return ids
}

func (mr *ManifestRepo) SetActiveIndex(ctx context.Context, batchIDs []string) error {
	if batchIDs == nil {
		batchIDs = []string{}
	}
	raw, err := sonic.MarshalString(batchIDs)
	if err != nil {
		return err
	}
	return mr.settings.Set(ctx, consts.ActiveBatchIndexKey, raw)
}
