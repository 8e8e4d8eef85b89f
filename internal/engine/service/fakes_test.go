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
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/go-hangar/hangar/internal/engine/installer"
	"github.com/go-hangar/hangar/internal/engine/model"
	"github.com/go-hangar/hangar/internal/pkg/logsink"
)

// fakeInstaller writes {pluginsDir}/{slug}/plugin.php with content, or fails
// per failWith. When leavePartial is set a failed call still writes the
// target directory first, mimicking a copy interrupted halfway.
type fakeInstaller struct {
	pluginsDir   string
	content      string
	failWith     map[string]error // keyed by slug
	leavePartial bool

	installCalls []string
	updateCalls  []string
}

func newFakeInstaller(pluginsDir string) *fakeInstaller {
	return &fakeInstaller{
		pluginsDir: pluginsDir,
		content:    "installed",
		failWith:   map[string]error{},
	}
}

func (fi *fakeInstaller) write(slug string) error {
	dir := filepath.Join(fi.pluginsDir, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "plugin.php"), []byte(fi.content), 0o644)
}

func (fi *fakeInstaller) run(slug string) error {
	if err, ok := fi.failWith[slug]; ok {
		if fi.leavePartial {
			_ = fi.write(slug)
		}
		return err
	}
	return fi.write(slug)
}

func (fi *fakeInstaller) Install(ctx context.Context, packagePath, targetIdentity string) error {
	slug := installer.SlugOf(targetIdentity)
	fi.installCalls = append(fi.installCalls, slug)
	return fi.run(slug)
}

func (fi *fakeInstaller) Update(ctx context.Context, targetIdentity, packagePath string) error {
	slug := installer.SlugOf(targetIdentity)
	fi.updateCalls = append(fi.updateCalls, slug)
	return fi.run(slug)
}

func (fi *fakeInstaller) calls() int {
	return len(fi.installCalls) + len(fi.updateCalls)
}

// fakeSettings is an in-memory ISettingsRepository.
type fakeSettings struct {
	retention       int
	defaultActivate bool
	active          map[string]bool
	network         map[string]bool
	activateErr     error
	activateCalls   int
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{
		retention: 24,
		active:    map[string]bool{},
		network:   map[string]bool{},
	}
}

func (fs *fakeSettings) RetentionHours(ctx context.Context) int {
	return fs.retention
}

func (fs *fakeSettings) DefaultActivate(ctx context.Context) bool {
	return fs.defaultActivate
}

func (fs *fakeSettings) IsActive(ctx context.Context, slug string) bool {
	return fs.active[slug]
}

func (fs *fakeSettings) Activate(ctx context.Context, slug string, networkWide bool) error {
	fs.activateCalls++
	if fs.activateErr != nil {
		return fs.activateErr
	}
	fs.active[slug] = true
	if networkWide {
		fs.network[slug] = true
	}
	return nil
}

// fakeSink records appended entries in order.
type sinkRecord struct {
	action string
	entry  logsink.Entry
}

type fakeSink struct {
	records []sinkRecord
}

func (fs *fakeSink) Append(action string, entry logsink.Entry) {
	fs.records = append(fs.records, sinkRecord{action: action, entry: entry})
}

func (fs *fakeSink) byAction(action string) []sinkRecord {
	var out []sinkRecord
	for _, r := range fs.records {
		if r.action == action {
			out = append(out, r)
		}
	}
	return out
}

// fakeManifestRepo is an in-memory IManifestRepository.
type fakeManifestRepo struct {
	manifests map[string]*model.BatchManifest
	ttls      map[string]time.Duration
	index     []string
	saveErr   error
}

func newFakeManifestRepo() *fakeManifestRepo {
	return &fakeManifestRepo{
		manifests: map[string]*model.BatchManifest{},
		ttls:      map[string]time.Duration{},
		index:     []string{},
	}
}

func (fr *fakeManifestRepo) SaveManifest(ctx context.Context, manifest *model.BatchManifest, ttl time.Duration) error {
	if fr.saveErr != nil {
		return fr.saveErr
	}
	clone := *manifest
	fr.manifests[manifest.BatchID] = &clone
	fr.ttls[manifest.BatchID] = ttl
	return nil
}

func (fr *fakeManifestRepo) GetManifest(ctx context.Context, batchID string) (*model.BatchManifest, bool) {
	manifest, ok := fr.manifests[batchID]
	return manifest, ok
}

func (fr *fakeManifestRepo) DeleteManifest(ctx context.Context, batchID string) error {
	delete(fr.manifests, batchID)
	delete(fr.ttls, batchID)
	return nil
}

func (fr *fakeManifestRepo) GetActiveIndex(ctx context.Context) []string {
	return append([]string{}, fr.index...)
}

func (fr *fakeManifestRepo) SetActiveIndex(ctx context.Context, batchIDs []string) error {
	fr.index = append([]string{}, batchIDs...)
	return nil
}

var errInstallerBroken = errors.New("unpack failed: corrupt archive")

func boolPtr(v bool) *bool { return &v }
