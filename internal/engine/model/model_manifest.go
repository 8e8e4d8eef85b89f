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

package model

// ManifestEntry 清单中单个插件的处理记录
type ManifestEntry struct {
	Slug       string     `json:"slug"`
	Action     TaskAction `json:"action"`
	Status     TaskStatus `json:"status"`
	BackupPath string     `json:"backup_path,omitempty"` // 仅 update
}

// BatchManifest 批次的持久化记录，批次结束时写入一次，
// 由延后回滚读取，回滚完成或过期后删除。
type BatchManifest struct {
	BatchID   string          `json:"batch_id"`
	Timestamp int64           `json:"timestamp"`
	ActorID   string          `json:"user_id"`
	ExpiresAt int64           `json:"expires_at"`
	Plugins   []ManifestEntry `json:"plugins"`
	Summary   BatchSummary    `json:"summary"`
}

// Valid reports whether the persisted value decoded into a well-formed
// manifest. Malformed values are treated as "not found" by lookups.
func (m *BatchManifest) Valid() bool {
	return m != nil && m.BatchID != ""
}

// ManifestFromResults 根据处理结果构建清单草稿
func ManifestFromResults(batchID, actorID string, results []*ProcessingResult) *BatchManifest {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, ManifestEntry{
			Slug:       r.Slug,
			Action:     r.Action,
			Status:     r.Status,
			BackupPath: r.BackupPath,
		})
	}
	return &BatchManifest{
		BatchID: batchID,
		ActorID: actorID,
		Plugins: entries,
		Summary: Summarize(results),
	}
}

// RollbackItemResult 单个清单条目的回滚结果
type RollbackItemResult struct {
	Slug    string `json:"slug"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RollbackResult 整批回滚的出参
type RollbackResult struct {
	Success  bool                 `json:"success"`
	Failures []string             `json:"failures"`
	Results  []RollbackItemResult `json:"results"`
}
