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
	"strconv"
	"time"

	"github.com/go-hangar/hangar/internal/engine/consts"
	"github.com/go-hangar/hangar/internal/engine/model"
	"github.com/go-hangar/hangar/pkg/log"
	"github.com/go-hangar/hangar/pkg/metrics"
)

// BatchService runs the task processor over an ordered task list,
// aggregates per-item results and records a manifest for non-dry runs.
// Tasks execute strictly sequentially; one task's outcome never affects
// another's, so a single failure cannot halt the batch.
type BatchService struct {
	processor *TaskProcessor
	manifests *ManifestService

	// most recent result list, scanned by GetBatchSummary
	lastResults []*model.ProcessingResult
}

func NewBatchService(processor *TaskProcessor, manifests *ManifestService) *BatchService {
	return &BatchService{
		processor: processor,
		manifests: manifests,
	}
}

// NewBatchID 生成批次 ID，格式 {prefix}_{unixTime}_{actorId}
func NewBatchID(actorID string) string {
	if actorID == "" {
		actorID = "0"
	}
	return fmt.Sprintf("%s_%d_%s", consts.BatchIDPrefix, time.Now().Unix(), actorID)
}

// ProcessBatch processes tasks in input order and returns exactly one
// result per task. Outside dry-run the batch manifest is recorded after
// all tasks finish.
func (bs *BatchService) ProcessBatch(ctx context.Context, tasks []model.PluginTask, dryRun bool, actorID string) *model.BatchResult {
	batchID := NewBatchID(actorID)

	log.Infow("processing batch",
		"batchId", batchID,
		"tasks", len(tasks),
		"dryRun", dryRun,
	)

	results := make([]*model.ProcessingResult, 0, len(tasks))
	for i := range tasks {
		result := bs.processor.Process(ctx, &tasks[i], ProcessOptions{
			BatchID:       batchID,
			DryRun:        dryRun,
			RetainBackups: !dryRun,
		})
		results = append(results, result)
	}

	bs.lastResults = results
	summary := model.Summarize(results)

	if !dryRun {
		manifest := model.ManifestFromResults(batchID, actorID, results)
		if err := bs.manifests.RecordBatch(ctx, batchID, manifest); err != nil {
			// 清单写入失败不影响已完成的处理结果，但该批次无法延后回滚
			log.Errorw("failed to record batch manifest", "batchId", batchID, "error", err)
		}
	}

	metrics.BatchesTotal.WithLabelValues(strconv.FormatBool(dryRun)).Inc()

	return &model.BatchResult{
		BatchID: batchID,
		Results: results,
		Summary: summary,
	}
}

// GetBatchSummary 扫描最近一次结果列表生成汇总
func (bs *BatchService) GetBatchSummary() model.BatchSummary {
	return model.Summarize(bs.lastResults)
}
