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
	"strconv"
	"strings"

	"github.com/go-hangar/hangar/internal/engine/installer"
	"github.com/go-hangar/hangar/internal/engine/model"
	"github.com/go-hangar/hangar/internal/engine/repo"
	"github.com/go-hangar/hangar/internal/pkg/logsink"
	"github.com/go-hangar/hangar/pkg/backup"
	"github.com/go-hangar/hangar/pkg/metrics"
)

// Config 服务层目录与平台版本配置
type Config struct {
	// PluginsDir 插件安装根目录
	PluginsDir string
	// PlatformVersion 宿主平台版本，用于兼容性检查
	PlatformVersion string
}

// ProcessOptions 单个任务的处理选项
type ProcessOptions struct {
	BatchID string
	DryRun  bool
	// RetainBackups keeps a successful update's backup on disk so the batch
	// manifest can drive a later rollback. Unrecorded runs clean the backup
	// up immediately after a successful install.
	RetainBackups bool
}

// TaskProcessor drives one task through its state machine:
// pending -> installing -> success | failed | incompatible.
// Dry runs never touch the installer or the backup store.
type TaskProcessor struct {
	backups         *backup.Store
	inst            installer.Installer
	settings        repo.ISettingsRepository
	sink            logsink.ILogSink
	pluginsDir      string
	platformVersion string
}

func NewTaskProcessor(
	backups *backup.Store,
	inst installer.Installer,
	settings repo.ISettingsRepository,
	sink logsink.ILogSink,
	cfg Config,
) *TaskProcessor {
	return &TaskProcessor{
		backups:         backups,
		inst:            inst,
		settings:        settings,
		sink:            sink,
		pluginsDir:      cfg.PluginsDir,
		platformVersion: cfg.PlatformVersion,
	}
}

// TargetDir 返回任务对应的安装目录
func (tp *TaskProcessor) TargetDir(task *model.PluginTask) string {
	return filepath.Join(tp.pluginsDir, task.Slug)
}

// Process runs one task to a terminal state and returns its result. All
// installer and filesystem failures are converted into a failed result;
// nothing escapes as an error.
func (tp *TaskProcessor) Process(ctx context.Context, task *model.PluginTask, opts ProcessOptions) *model.ProcessingResult {
	result := model.NewProcessingResult(task, opts.DryRun)

	// 兼容性检查先于任何副作用
	if !tp.compatible(task) {
		result.Status = model.StatusIncompatible
		result.AddMessage(fmt.Sprintf("requires platform version %s or higher, current is %s",
			task.Requires, tp.platformVersion))
		tp.finish(task, result, opts)
		return result
	}

	if opts.DryRun {
		tp.processDryRun(ctx, task, result)
		tp.finish(task, result, opts)
		return result
	}

	result.Status = model.StatusInstalling

	// 升级前先备份，备份失败则中止，不调用安装器
	var backupPath string
	if task.Action == model.ActionUpdate {
		path, err := tp.backups.CreateBackup(tp.TargetDir(task))
		if err != nil {
			result.Status = model.StatusFailed
			result.AddMessage(fmt.Sprintf("backup failed, update aborted: %v", err))
			tp.finish(task, result, opts)
			return result
		}
		backupPath = path
	}

	var instErr error
	if task.Action == model.ActionUpdate {
		instErr = tp.inst.Update(ctx, task.TargetIdentity, task.PackagePath)
	} else {
		instErr = tp.inst.Install(ctx, task.PackagePath, task.TargetIdentity)
	}

	if instErr != nil {
		tp.handleFailure(task, result, backupPath, instErr)
		tp.finish(task, result, opts)
		return result
	}

	result.Status = model.StatusSuccess
	if task.Action == model.ActionUpdate {
		result.AddMessage(fmt.Sprintf("updated %s from %s to %s",
			result.DisplayName, orUnknown(task.InstalledVersion), orUnknown(task.NewVersion)))
		if opts.RetainBackups {
			result.BackupPath = backupPath
		} else {
			tp.backups.CleanupBackup(backupPath)
		}
	} else {
		result.AddMessage(fmt.Sprintf("installed %s %s", result.DisplayName, orUnknown(task.NewVersion)))
	}

	tp.resolveActivation(ctx, task, result)
	tp.finish(task, result, opts)
	return result
}

// processDryRun 只评估声明的兼容性元数据，无任何副作用
func (tp *TaskProcessor) processDryRun(ctx context.Context, task *model.PluginTask, result *model.ProcessingResult) {
	result.Status = model.StatusSuccess
	if task.Action == model.ActionUpdate {
		result.AddMessage(fmt.Sprintf("would update %s from %s to %s",
			result.DisplayName, orUnknown(task.InstalledVersion), orUnknown(task.NewVersion)))
	} else {
		result.AddMessage(fmt.Sprintf("would install %s %s", result.DisplayName, orUnknown(task.NewVersion)))
	}
	if tp.effectiveActivate(ctx, task) {
		result.AddMessage(fmt.Sprintf("would activate %s", result.DisplayName))
	}
}

// handleFailure 安装器失败后的补偿：有备份则恢复，否则清掉残留目录
func (tp *TaskProcessor) handleFailure(task *model.PluginTask, result *model.ProcessingResult, backupPath string, instErr error) {
	result.Status = model.StatusFailed
	result.AddMessage(fmt.Sprintf("%s failed: %v", task.Action, instErr))

	if backupPath != "" {
		if err := tp.backups.RestoreBackup(backupPath, tp.TargetDir(task)); err != nil {
			result.AddMessage(fmt.Sprintf("restore from backup failed: %v", err))
		} else {
			result.RolledBack = true
			result.AddMessage("previous version restored from backup")
			tp.backups.CleanupBackup(backupPath)
		}
		return
	}

	tp.backups.RemovePartialInstall(tp.TargetDir(task))
	result.AddMessage("partial install removed")
}

// resolveActivation 成功路径上的激活决策
func (tp *TaskProcessor) resolveActivation(ctx context.Context, task *model.PluginTask, result *model.ProcessingResult) {
	// 升级且目标已激活：状态已正确，幂等短路
	if task.Action == model.ActionUpdate && tp.settings.IsActive(ctx, task.Slug) {
		result.Activated = true
		return
	}

	if !tp.effectiveActivate(ctx, task) {
		return
	}

	// 激活失败不降级整体结果，安装本身已经成功
	if err := tp.settings.Activate(ctx, task.Slug, task.NetworkActivate); err != nil {
		result.AddMessage(fmt.Sprintf("activation failed: %v", err))
		return
	}
	result.Activated = true
	result.AddMessage(fmt.Sprintf("activated %s", result.DisplayName))
}

// effectiveActivate 任务显式指定优先，否则取批次级默认配置
func (tp *TaskProcessor) effectiveActivate(ctx context.Context, task *model.PluginTask) bool {
	if task.Activate != nil {
		return *task.Activate
	}
	return tp.settings.DefaultActivate(ctx)
}

func (tp *TaskProcessor) compatible(task *model.PluginTask) bool {
	if task.Requires == "" || tp.platformVersion == "" {
		return true
	}
	return compareVersions(tp.platformVersion, task.Requires) >= 0
}

// finish logs exactly one activity entry per terminal transition and
// records task metrics.
func (tp *TaskProcessor) finish(task *model.PluginTask, result *model.ProcessingResult, opts ProcessOptions) {
	tp.sink.Append("plugin_"+string(task.Action), logsink.Entry{
		BatchID:     opts.BatchID,
		Slug:        task.Slug,
		Name:        result.DisplayName,
		FromVersion: task.InstalledVersion,
		ToVersion:   task.NewVersion,
		Status:      string(result.Status),
		Message:     strings.Join(result.Messages, "; "),
		IsDryRun:    opts.DryRun,
	})
	metrics.BatchTasksTotal.WithLabelValues(string(task.Action), string(result.Status)).Inc()
}

func orUnknown(version string) string {
	if version == "" {
		return "unknown"
	}
	return version
}

// compareVersions compares dotted numeric versions, returning -1, 0 or 1.
// Non-numeric segments compare lexically.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv string
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		an, aerr := strconv.Atoi(av)
		bn, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
