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

// TaskAction 任务动作
type TaskAction string

const (
	ActionInstall TaskAction = "install" // 全新安装
	ActionUpdate  TaskAction = "update"  // 升级已安装插件
)

// TaskStatus 任务状态
type TaskStatus string

const (
	StatusPending      TaskStatus = "pending"      // 等待中
	StatusInstalling   TaskStatus = "installing"   // 执行中
	StatusSuccess      TaskStatus = "success"      // 成功
	StatusFailed       TaskStatus = "failed"       // 失败
	StatusIncompatible TaskStatus = "incompatible" // 不兼容
)

// IsTerminal reports whether s is a terminal task state.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusIncompatible
}

// PluginTask 一个批次中单个插件的安装/升级任务描述。
// 交给处理器后不再修改。
type PluginTask struct {
	Slug             string     `json:"slug"`                       // 安装目标唯一标识
	Action           TaskAction `json:"action"`                     // install / update
	PackagePath      string     `json:"packagePath"`                // 已解压的包目录
	TargetIdentity   string     `json:"targetIdentity"`             // 安装实体引用，如 slug/entry.php
	DisplayName      string     `json:"displayName,omitempty"`      // 展示名称
	InstalledVersion string     `json:"installedVersion,omitempty"` // 当前版本，仅 update
	NewVersion       string     `json:"newVersion,omitempty"`       // 包内版本
	Requires         string     `json:"requires,omitempty"`         // 最低平台版本要求
	Activate         *bool      `json:"activate,omitempty"`         // nil 时继承全局默认
	NetworkActivate  bool       `json:"networkActivate"`            // 多租户全站激活
}

// ProcessingResult 单个任务的处理结果。任务开始时创建，
// 仅由该任务的处理器修改，返回后不再变更。
type ProcessingResult struct {
	Slug        string     `json:"slug"`
	DisplayName string     `json:"displayName"`
	Action      TaskAction `json:"action"`
	Status      TaskStatus `json:"status"`
	Messages    []string   `json:"messages"`
	Activated   bool       `json:"activated"`
	RolledBack  bool       `json:"rolledBack"`
	IsDryRun    bool       `json:"isDryRun"`

	// BackupPath is carried in memory to the orchestrator for manifest
	// recording; it is not part of the outbound result shape.
	BackupPath string `json:"-"`
}

// NewProcessingResult 按任务初始化结果，初始状态 pending
func NewProcessingResult(task *PluginTask, dryRun bool) *ProcessingResult {
	displayName := task.DisplayName
	if displayName == "" {
		displayName = task.Slug
	}
	return &ProcessingResult{
		Slug:        task.Slug,
		DisplayName: displayName,
		Action:      task.Action,
		Status:      StatusPending,
		Messages:    []string{},
		IsDryRun:    dryRun,
	}
}

// AddMessage 追加一条展示消息
func (r *ProcessingResult) AddMessage(msg string) {
	r.Messages = append(r.Messages, msg)
}

// BatchSummary 批次结果汇总
type BatchSummary struct {
	Total        int `json:"total"`
	Installed    int `json:"installed"`
	Updated      int `json:"updated"`
	Failed       int `json:"failed"`
	RolledBack   int `json:"rolledBack"`
	Incompatible int `json:"incompatible"`
}

// Summarize 扫描结果列表生成汇总。
// rolledBack 仅统计 status=failed 且回滚成功的条目。
func Summarize(results []*ProcessingResult) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			if r.Action == ActionUpdate {
				summary.Updated++
			} else {
				summary.Installed++
			}
		case StatusFailed:
			summary.Failed++
			if r.RolledBack {
				summary.RolledBack++
			}
		case StatusIncompatible:
			summary.Incompatible++
		}
	}
	return summary
}

// BatchResult 一次批量处理的出参
type BatchResult struct {
	BatchID string              `json:"batchId"`
	Results []*ProcessingResult `json:"results"`
	Summary BatchSummary        `json:"summary"`
}
