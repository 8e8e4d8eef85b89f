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

package consts

// Redis key layout
const (
	// ManifestKeyPrefix 批次清单存储前缀
	ManifestKeyPrefix = "hangar:batch:manifest:"

	// ActiveBatchIndexKey 当前有效批次 ID 索引
	ActiveBatchIndexKey = "hangar:batch:active_index"

	// ActivityLogKey 活动日志列表
	ActivityLogKey = "hangar:activity:log"
)

// Settings keys
const (
	SettingRetentionHours       = "hangar:settings:rollback_retention_hours"
	SettingDefaultActivate      = "hangar:settings:auto_activate"
	SettingActivePlugins        = "hangar:settings:active_plugins"
	SettingNetworkActivePlugins = "hangar:settings:network_active_plugins"
)

const (
	// BatchIDPrefix batch id 前缀，完整格式 {prefix}_{unixTime}_{actorId}
	BatchIDPrefix = "batch"

	// DefaultRetentionHours 清单保留时长（小时），配置非法时回退到该值
	DefaultRetentionHours = 24

	// ActivityLogMaxLen 活动日志最大保留条数
	ActivityLogMaxLen = 1000
)
