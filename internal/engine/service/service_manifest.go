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

package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-hangar/hangar/internal/engine/model"
	"github.com/go-hangar/hangar/internal/engine/repo"
	"github.com/go-hangar/hangar/internal/pkg/logsink"
	"github.com/go-hangar/hangar/pkg/backup"
	"github.com/go-hangar/hangar/pkg/log"
	"github.com/go-hangar/hangar/pkg/metrics"
)

// ManifestService owns the durable batch record lifecycle: recording,
// lookup, full-batch rollback and expiration pruning.
//
// Record, rollback and cleanup are expected to run from independent,
// non-overlapping request contexts (one admin action or one scheduled
// sweep at a time). Two of them racing on the same batch id is an
// accepted gap, mirroring the non-concurrent deployment model.
type ManifestService struct {
	repo       repo.IManifestRepository
	settings   repo.ISettingsRepository
	backups    *backup.Store
	sink       logsink.ILogSink
	pluginsDir string
}

func NewManifestService(
	manifestRepo repo.IManifestRepository,
	settings repo.ISettingsRepository,
	backups *backup.Store,
	sink logsink.ILogSink,
	cfg Config,
) *ManifestService {
	return &ManifestService{
		repo:       manifestRepo,
		settings:   settings,
		backups:    backups,
		sink:       sink,
		pluginsDir: cfg.PluginsDir,
	}
}

func (ms *ManifestService) targetDir(slug string) string {
	return filepath.Join(ms.pluginsDir, slug)
}

// actorFromBatchID 从 {prefix}_{unixTime}_{actorId} 提取 actorId
func actorFromBatchID(batchID string) string {
	if idx := strings.LastIndexByte(batchID, '_'); idx >= 0 && idx+1 < len(batchID) {
		return batchID[idx+1:]
	}
	return "0"
}

// RecordBatch fills in expiry and actor metadata, persists the manifest
// with a storage TTL equal to the retention window and appends the batch
// id to the active index when not already present.
func (ms *ManifestService) RecordBatch(ctx context.Context, batchID string, manifest *model.BatchManifest) error {
	retention := time.Duration(ms.settings.RetentionHours(ctx)) * time.Hour

	now := time.Now()
	manifest.BatchID = batchID
	if manifest.Timestamp == 0 {
		manifest.Timestamp = now.Unix()
	}
	if manifest.ActorID == "" {
		manifest.ActorID = actorFromBatchID(batchID)
	}
	manifest.ExpiresAt = now.Unix() + int64(retention/time.Second)

	if err := ms.repo.SaveManifest(ctx, manifest, retention); err != nil {
		return err
	}

	ids := ms.repo.GetActiveIndex(ctx)
	for _, existing := range ids {
		if existing == batchID {
			return nil
		}
	}
	return ms.repo.SetActiveIndex(ctx, append(ids, batchID))
}

// GetBatchManifest returns the manifest for batchID, or found=false when
// absent or malformed. Callers treat "not found" as the normal failure
// mode for this lookup.
func (ms *ManifestService) GetBatchManifest(ctx context.Context, batchID string) (*model.BatchManifest, bool) {
	return ms.repo.GetManifest(ctx, batchID)
}

// GetActiveBatches resolves every id in the index to its manifest,
// silently dropping ids whose manifest is no longer resolvable.
func (ms *ManifestService) GetActiveBatches(ctx context.Context) []*model.BatchManifest {
	ids := ms.repo.GetActiveIndex(ctx)
	manifests := make([]*model.BatchManifest, 0, len(ids))
	for _, id := range ids {
		if manifest, found := ms.repo.GetManifest(ctx, id); found {
			manifests = append(manifests, manifest)
		}
	}
	return manifests
}

// RollbackBatch reverses a recorded batch entry by entry, in manifest
// order, continuing through individual failures. After all entries are
// processed the manifest is deleted and the id removed from the index:
// a rollback is terminal whether or not every entry succeeded.
func (ms *ManifestService) RollbackBatch(ctx context.Context, batchID string) *model.RollbackResult {
	manifest, found := ms.repo.GetManifest(ctx, batchID)
	if !found {
		return &model.RollbackResult{
			Success:  false,
			Failures: []string{fmt.Sprintf("batch manifest not found: %s", batchID)},
			Results:  []model.RollbackItemResult{},
		}
	}

	failures := []string{}
	results := make([]model.RollbackItemResult, 0, len(manifest.Plugins))

	for _, entry := range manifest.Plugins {
		results = append(results, ms.rollbackEntry(entry, &failures))
	}

	status := "success"
	if len(failures) > 0 {
		status = "partial"
	}
	ms.sink.Append("batch_rollback", logsink.Entry{
		BatchID: batchID,
		Status:  status,
		Message: fmt.Sprintf("rolled back %d plugins, %d failures", len(results), len(failures)),
	})
	metrics.BatchRollbacksTotal.WithLabelValues(status).Inc()

	if err := ms.repo.DeleteManifest(ctx, batchID); err != nil {
		log.Warnw("manifest delete after rollback failed", "batchId", batchID, "error", err)
	}
	ms.removeFromIndex(ctx, batchID)

	return &model.RollbackResult{
		Success:  len(failures) == 0,
		Failures: failures,
		Results:  results,
	}
}

// rollbackEntry undoes a single manifest entry. A plugin whose processing
// did not reach success (failed, incompatible) changed nothing on disk,
// so it needs no undo. Install rollbacks always delete the target
// directory; update rollbacks restore from the recorded backup.
func (ms *ManifestService) rollbackEntry(entry model.ManifestEntry, failures *[]string) model.RollbackItemResult {
	item := model.RollbackItemResult{
		Slug:   entry.Slug,
		Action: string(entry.Action),
	}

	if entry.Status != model.StatusSuccess {
		item.Success = true
		item.Action = "skip"
		item.Message = "skipped: was not successfully processed"
		return item
	}

	switch entry.Action {
	case model.ActionUpdate:
		if entry.BackupPath == "" {
			item.Message = fmt.Sprintf("no backup path recorded for %s", entry.Slug)
			*failures = append(*failures, item.Message)
			return item
		}
		if err := ms.backups.RestoreBackup(entry.BackupPath, ms.targetDir(entry.Slug)); err != nil {
			item.Message = fmt.Sprintf("restore failed for %s: %v", entry.Slug, err)
			*failures = append(*failures, item.Message)
			return item
		}
		ms.backups.CleanupBackup(entry.BackupPath)
		item.Success = true
		item.Action = "restore"
		item.Message = fmt.Sprintf("restored %s from backup", entry.Slug)

	case model.ActionInstall:
		// an install rollback always deletes
		ms.backups.RemovePartialInstall(ms.targetDir(entry.Slug))
		item.Success = true
		item.Action = "remove"
		item.Message = fmt.Sprintf("removed %s", entry.Slug)

	default:
		item.Message = fmt.Sprintf("unknown action %q for %s", entry.Action, entry.Slug)
		*failures = append(*failures, item.Message)
	}

	return item
}

// CleanupExpired prunes expired manifests and their backups. Ids whose
// manifest is unresolvable are dropped silently (their storage TTL
// already expired them). The surviving index is rewritten once at the
// end. Returns the number of manifests pruned.
func (ms *ManifestService) CleanupExpired(ctx context.Context) int {
	ids := ms.repo.GetActiveIndex(ctx)
	now := time.Now().Unix()

	pruned := 0
	surviving := make([]string, 0, len(ids))

	for _, id := range ids {
		manifest, found := ms.repo.GetManifest(ctx, id)
		if !found {
			continue
		}
		if manifest.ExpiresAt > now {
			surviving = append(surviving, id)
			continue
		}

		for _, entry := range manifest.Plugins {
			if entry.BackupPath != "" {
				ms.backups.CleanupBackup(entry.BackupPath)
			}
		}
		if err := ms.repo.DeleteManifest(ctx, id); err != nil {
			log.Warnw("expired manifest delete failed", "batchId", id, "error", err)
		}
		pruned++
		metrics.ExpiredManifestsPrunedTotal.Inc()
	}

	if err := ms.repo.SetActiveIndex(ctx, surviving); err != nil {
		log.Warnw("active batch index rewrite failed", "error", err)
	}

	if pruned > 0 {
		log.Infow("expired batch manifests pruned", "count", pruned)
	}
	return pruned
}

func (ms *ManifestService) removeFromIndex(ctx context.Context, batchID string) {
	ids := ms.repo.GetActiveIndex(ctx)
	surviving := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != batchID {
			surviving = append(surviving, id)
		}
	}
	if err := ms.repo.SetActiveIndex(ctx, surviving); err != nil {
		log.Warnw("active batch index rewrite failed", "batchId", batchID, "error", err)
	}
}
