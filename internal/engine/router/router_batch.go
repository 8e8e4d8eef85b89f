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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-hangar/hangar/internal/engine/model"
	httpx "github.com/go-hangar/hangar/pkg/http"
)

func (rt *Router) batchRouter(r fiber.Router) {
	batchGroup := r.Group("/batches")
	{
		// 批量安装/升级
		batchGroup.Post("", rt.processBatch)
		// 当前可回滚批次列表
		batchGroup.Get("", rt.listActiveBatches)
		// 清理过期清单（放在 :batchId 通配路由前面）
		batchGroup.Post("/cleanup", rt.cleanupExpired)
		// 最近一次批次的汇总
		batchGroup.Get("/summary", rt.lastBatchSummary)
		// 批次清单详情
		batchGroup.Get("/:batchId", rt.getBatchManifest)
		// 整批回滚
		batchGroup.Post("/:batchId/rollback", rt.rollbackBatch)
	}
}

// processBatchRequest 批量处理入参
type processBatchRequest struct {
	Tasks   []model.PluginTask `json:"tasks"`
	DryRun  bool               `json:"dryRun"`
	ActorID string             `json:"actorId"`
}

func (rt *Router) processBatch(c *fiber.Ctx) error {
	var req processBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg)
	}
	if len(req.Tasks) == 0 {
		return httpx.WithRepMsg(c, httpx.BatchTasksEmpty.Code, httpx.BatchTasksEmpty.Msg)
	}

	result := rt.Batches.ProcessBatch(c.Context(), req.Tasks, req.DryRun, req.ActorID)
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) lastBatchSummary(c *fiber.Ctx) error {
	return httpx.WithRepJSON(c, rt.Batches.GetBatchSummary())
}

func (rt *Router) listActiveBatches(c *fiber.Ctx) error {
	manifests := rt.Manifests.GetActiveBatches(c.Context())
	return httpx.WithRepJSON(c, manifests)
}

func (rt *Router) getBatchManifest(c *fiber.Ctx) error {
	batchID := c.Params("batchId")
	manifest, found := rt.Manifests.GetBatchManifest(c.Context(), batchID)
	if !found {
		return httpx.WithRepMsg(c, httpx.BatchNotFound.Code, httpx.BatchNotFound.Msg)
	}
	return httpx.WithRepJSON(c, manifest)
}

func (rt *Router) rollbackBatch(c *fiber.Ctx) error {
	batchID := c.Params("batchId")
	result := rt.Manifests.RollbackBatch(c.Context(), batchID)
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) cleanupExpired(c *fiber.Ctx) error {
	pruned := rt.Manifests.CleanupExpired(c.Context())
	return httpx.WithRepJSON(c, fiber.Map{"pruned": pruned})
}
