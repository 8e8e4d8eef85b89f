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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/go-hangar/hangar/internal/engine/bootstrap"
	"github.com/go-hangar/hangar/internal/engine/config"
	"github.com/go-hangar/hangar/internal/engine/model"
)

var (
	tasksFile string
	dryRun    bool
	actorID   string
)

func init() {
	batchCmd.Flags().StringVarP(&tasksFile, "file", "f", "", "JSON file with the task list (required)")
	batchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "simulate without touching the installer or filesystem")
	batchCmd.Flags().StringVar(&actorID, "actor", "cli", "actor id recorded in the batch manifest")
	_ = batchCmd.MarkFlagRequired("file")
}

// withApp 通过 wire 注入器构建应用，执行 fn，随后清理
func withApp(fn func(app *bootstrap.App) error) error {
	appConf := config.NewConf(configFile)
	app, cleanup, err := initApp(appConf)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(app)
}

func printJSON(v any) error {
	out, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the batch engine HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		appConf := config.NewConf(configFile)
		app, cleanup, err := initApp(appConf)
		if err != nil {
			return err
		}
		bootstrap.Run(app, cleanup)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "process a batch of plugin install/update tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(tasksFile)
		if err != nil {
			return fmt.Errorf("read task file: %w", err)
		}
		var tasks []model.PluginTask
		if err := sonic.Unmarshal(raw, &tasks); err != nil {
			return fmt.Errorf("parse task file: %w", err)
		}

		return withApp(func(app *bootstrap.App) error {
			result := app.Batches.ProcessBatch(context.Background(), tasks, dryRun, actorID)
			return printJSON(result)
		})
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback <batchId>",
	Short: "roll back a recorded batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			result := app.Manifests.RollbackBatch(context.Background(), args[0])
			if err := printJSON(result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("rollback finished with %d failures", len(result.Failures))
			}
			return nil
		})
	},
}

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "list batches that can still be rolled back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			return printJSON(app.Manifests.GetActiveBatches(context.Background()))
		})
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "prune expired batch manifests and their backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			pruned := app.Manifests.CleanupExpired(context.Background())
			fmt.Printf("pruned %d expired manifests\n", pruned)
			return nil
		})
	},
}
