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

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BatchTasksTotal counts processed tasks by action and terminal status
	BatchTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangar_batch_tasks_total",
			Help: "Total number of processed plugin tasks",
		},
		[]string{"action", "status"},
	)

	// BatchesTotal counts processed batches
	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangar_batches_total",
			Help: "Total number of processed batches",
		},
		[]string{"dry_run"},
	)

	// BatchRollbacksTotal counts batch rollbacks by outcome
	BatchRollbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangar_batch_rollbacks_total",
			Help: "Total number of batch rollbacks",
		},
		[]string{"outcome"},
	)

	// ExpiredManifestsPrunedTotal counts manifests removed by the cleanup sweep
	ExpiredManifestsPrunedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hangar_expired_manifests_pruned_total",
			Help: "Total number of expired batch manifests pruned",
		},
	)
)

var registerOnce sync.Once

// Register registers all engine metrics with the default registry.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			BatchTasksTotal,
			BatchesTotal,
			BatchRollbacksTotal,
			ExpiredManifestsPrunedTotal,
		)
	})
}
