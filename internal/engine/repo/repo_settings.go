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
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/go-hangar/hangar/internal/engine/consts"
	"github.com/go-hangar/hangar/pkg/cache"
	"github.com/go-hangar/hangar/pkg/log"
)

// ISettingsRepository 引擎运行设置与插件激活状态
type ISettingsRepository interface {
	// RetentionHours 清单保留时长；配置非法或非正时返回默认 24
	RetentionHours(ctx context.Context) int
	// DefaultActivate 批次级激活默认值
	DefaultActivate(ctx context.Context) bool
	// IsActive 插件当前是否已激活
	IsActive(ctx context.Context, slug string) bool
	// Activate 激活插件；networkWide 为多租户全站激活
	Activate(ctx context.Context, slug string, networkWide bool) error
}

// SettingsRepo 基于配置存储的实现
type SettingsRepo struct {
	settings cache.ISettingsStore
}

func NewSettingsRepo(settings cache.ISettingsStore) ISettingsRepository {
	return &SettingsRepo{settings: settings}
}

func (sr *SettingsRepo) RetentionHours(ctx context.Context) int {
	raw := sr.settings.Get(ctx, consts.SettingRetentionHours, "")
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return consts.DefaultRetentionHours
	}
	return hours
}

func (sr *SettingsRepo) DefaultActivate(ctx context.Context) bool {
	return sr.settings.Get(ctx, consts.SettingDefaultActivate, "false") == "true"
}

func (sr *SettingsRepo) IsActive(ctx context.Context, slug string) bool {
	for _, s := range sr.activeSet(ctx, consts.SettingActivePlugins) {
		if s == slug {
			return true
		}
	}
	return false
}

func (sr *SettingsRepo) Activate(ctx context.Context, slug string, networkWide bool) error {
	if err := sr.addToSet(ctx, consts.SettingActivePlugins, slug); err != nil {
		return err
	}
	if networkWide {
		return sr.addToSet(ctx, consts.SettingNetworkActivePlugins, slug)
	}
	return nil
}

func (sr *SettingsRepo) activeSet(ctx context.Context, key string) []string {
	raw := sr.settings.Get(ctx, key, "[]")
	var slugs []string
	if err := sonic.UnmarshalString(raw, &slugs); err != nil {
		log.Warnw("active plugin set is malformed", "key", key, "error", err)
		return nil
	}
	return slugs
}

func (sr *SettingsRepo) addToSet(ctx context.Context, key, slug string) error {
	slugs := sr.activeSet(ctx, key)
	for _, s := range slugs {
		if s == slug {
			return nil
		}
	}
	slugs = append(slugs, slug)
	raw, err := sonic.MarshalString(slugs)
	if err != nil {
		return err
	}
	return sr.settings.Set(ctx, key, raw)
}
