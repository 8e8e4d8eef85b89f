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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-hangar/hangar/pkg/version"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "hangar",
	Short: "hangar bulk-installs and upgrades plugins with batch rollback",
	Long: "hangar drives batches of plugin installs and upgrades inside a running\n" +
		"application host. Every update is backed up first, every batch is recorded\n" +
		"in a durable manifest and can be rolled back as a unit until it expires.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "config file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(batchesCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
