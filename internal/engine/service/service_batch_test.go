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
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-hangar/hangar/internal/engine/model"
	"github.com/go-hangar/hangar/pkg/backup"
)

type batchFixture struct {
	*processorFixture
	batches *BatchService
	repo    *fakeManifestRepo
}

func newBatchFixture(t *testing.T) *batchFixture {
	t.Helper()
	pf := newProcessorFixture(t)
	repo := newFakeManifestRepo()

	manifests := NewManifestService(repo, pf.settings, backup.NewStore(pf.backupsDir), pf.sink, Config{PluginsDir: pf.pluginsDir})
	batches := NewBatchService(pf.processor, manifests)

	return &batchFixture{
		processorFixture: pf,
		batches:          batches,
		repo:             repo,
	}
}

func TestNewBatchID(t *testing.T) {
	id := NewBatchID("42")
	assert.True(t, strings.HasPrefix(id, "batch_"))
	assert.True(t, strings.HasSuffix(id, "_42"))

	// empty actor falls back to "0"
	assert.True(t, strings.HasSuffix(NewBatchID(""), "_0"))
}

func TestProcessBatch_OrderedResultsNoEarlyAbort(t *testing.T) {
	f := newBatchFixture(t)
	f.seedPlugin(t, "beta", "v1")
	f.inst.failWith["beta"] = errInstallerBroken

	tasks := []model.PluginTask{
		installTask("alpha"),
		updateTask("beta"),
		installTask("gamma"),
	}

	result := f.batches.ProcessBatch(context.Background(), tasks, false, "7")

	require.Len(t, result.Results, len(tasks), "exactly one result per task")
	assert.Equal(t, "alpha", result.Results[0].Slug)
	assert.Equal(t, "beta", result.Results[1].Slug)
	assert.Equal(t, "gamma", result.Results[2].Slug)

	assert.Equal(t, model.StatusSuccess, result.Results[0].Status)
	assert.Equal(t, model.StatusFailed, result.Results[1].Status)
	assert.True(t, result.Results[1].RolledBack)
	assert.Equal(t, model.StatusSuccess, result.Results[2].Status,
		"a failed task must not stop the tasks after it")

	assert.Equal(t, model.BatchSummary{
		Total:      3,
		Installed:  2,
		Failed:     1,
		RolledBack: 1,
	}, result.Summary)
}

func TestProcessBatch_RecordsManifest(t *testing.T) {
	f := newBatchFixture(t)
	f.seedPlugin(t, "akismet", "v1")

	tasks := []model.PluginTask{
		installTask("hello-dolly"),
		updateTask("akismet"),
	}

	result := f.batches.ProcessBatch(context.Background(), tasks, false, "7")

	manifest, found := f.repo.GetManifest(context.Background(), result.BatchID)
	require.True(t, found, "non-dry runs must record a manifest")
	require.Len(t, manifest.Plugins, 2)

	assert.Equal(t, model.ActionInstall, manifest.Plugins[0].Action)
	assert.Empty(t, manifest.Plugins[0].BackupPath)

	assert.Equal(t, model.ActionUpdate, manifest.Plugins[1].Action)
	require.NotEmpty(t, manifest.Plugins[1].BackupPath, "successful update must record its backup")
	_, err := os.Stat(manifest.Plugins[1].BackupPath)
	assert.NoError(t, err, "recorded backup must still exist on disk")

	assert.Equal(t, 24*time.Hour, f.repo.ttls[result.BatchID])
	assert.Contains(t, f.repo.index, result.BatchID)
	assert.Greater(t, manifest.ExpiresAt, time.Now().Unix())
}

func TestProcessBatch_DryRunRecordsNothing(t *testing.T) {
	f := newBatchFixture(t)

	tasks := []model.PluginTask{installTask("hello-dolly")}
	result := f.batches.ProcessBatch(context.Background(), tasks, true, "7")

	assert.Empty(t, f.repo.manifests, "dry runs never write a manifest")
	assert.Empty(t, f.repo.index)
	assert.Equal(t, 0, f.inst.calls())
	assert.Equal(t, 1, result.Summary.Installed)
}

func TestProcessBatch_ManifestWriteFailureKeepsResults(t *testing.T) {
	f := newBatchFixture(t)
	f.repo.saveErr = errInstallerBroken

	tasks := []model.PluginTask{installTask("hello-dolly")}
	result := f.batches.ProcessBatch(context.Background(), tasks, false, "7")

	// the work was done; only the delayed-rollback record is lost
	assert.Equal(t, model.StatusSuccess, result.Results[0].Status)
	assert.Empty(t, f.repo.manifests)
}

func TestProcessBatch_SummaryArithmetic(t *testing.T) {
	f := newBatchFixture(t)
	f.seedPlugin(t, "upd-ok", "v1")
	f.seedPlugin(t, "upd-bad", "v1")
	f.inst.failWith["upd-bad"] = errInstallerBroken
	f.inst.failWith["inst-bad"] = errInstallerBroken

	incompatible := installTask("too-new")
	incompatible.Requires = "99.0"

	tasks := []model.PluginTask{
		installTask("inst-ok"),
		updateTask("upd-ok"),
		updateTask("upd-bad"),
		installTask("inst-bad"),
		incompatible,
	}

	result := f.batches.ProcessBatch(context.Background(), tasks, false, "7")

	s := result.Summary
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Installed)
	assert.Equal(t, 1, s.Updated)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 1, s.RolledBack, "only the failed update had a backup to restore")
	assert.Equal(t, 1, s.Incompatible)
	assert.Equal(t, s.Total, s.Installed+s.Updated+s.Failed+s.Incompatible)

	assert.Equal(t, s, f.batches.GetBatchSummary())
}
