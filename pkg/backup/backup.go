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

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-hangar/hangar/pkg/id"
	"github.com/go-hangar/hangar/pkg/log"
	"github.com/pkg/errors"
)

// Error taxonomy for backup creation and restore. Callers match with
// errors.Is.
var (
	ErrSourceMissing   = errors.New("backup source directory missing")
	ErrDirCreateFailed = errors.New("backup directory create failed")
	ErrCopyFailed      = errors.New("backup copy failed")
	ErrBackupMissing   = errors.New("backup missing")
	ErrDeleteFailed    = errors.New("target delete failed")
)

// Store copies target directories into an isolated backups root and can
// restore or discard those copies. It knows nothing about batches or
// plugins beyond a directory path.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the backups root directory.
func (s *Store) Root() string {
	return s.root
}

// CreateBackup recursively copies sourceDir into a freshly named location
// under the backups root and returns the backup path. A failed copy never
// returns a partial backup path to the caller.
func (s *Store) CreateBackup(sourceDir string) (string, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrSourceMissing, "%s", sourceDir)
		}
		return "", errors.Wrapf(err, "stat %s", sourceDir)
	}
	if !info.IsDir() {
		return "", errors.Wrapf(ErrSourceMissing, "%s is not a directory", sourceDir)
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", errors.Wrapf(ErrDirCreateFailed, "%s: %v", s.root, err)
	}

	// {sourceDirName}_{unixTime}_{randomSuffix}，避免同一目录重复备份时冲突
	name := fmt.Sprintf("%s_%d_%s", filepath.Base(sourceDir), time.Now().Unix(), id.ShortId())
	backupPath := filepath.Join(s.root, name)

	if err := CopyDir(sourceDir, backupPath); err != nil {
		// drop the partial copy, it must never be referenced as valid
		_ = os.RemoveAll(backupPath)
		return "", errors.Wrapf(ErrCopyFailed, "%s -> %s: %v", sourceDir, backupPath, err)
	}

	return backupPath, nil
}

// RestoreBackup replaces targetDir with the contents of backupPath. The
// existing target is deleted before the copy; a failed delete aborts the
// restore so the backup itself is preserved.
func (s *Store) RestoreBackup(backupPath, targetDir string) error {
	info, err := os.Stat(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrBackupMissing, "%s", backupPath)
		}
		return errors.Wrapf(err, "stat %s", backupPath)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrBackupMissing, "%s is not a directory", backupPath)
	}

	if _, err := os.Stat(targetDir); err == nil {
		if err := os.RemoveAll(targetDir); err != nil {
			return errors.Wrapf(ErrDeleteFailed, "%s: %v", targetDir, err)
		}
	}

	if err := CopyDir(backupPath, targetDir); err != nil {
		return errors.Wrapf(ErrCopyFailed, "%s -> %s: %v", backupPath, targetDir, err)
	}

	return nil
}

// CleanupBackup removes a backup directory. Best effort: an already absent
// path is a no-op, a failed delete is logged and swallowed.
func (s *Store) CleanupBackup(backupPath string) {
	if backupPath == "" {
		return
	}
	if err := os.RemoveAll(backupPath); err != nil {
		log.Warnw("backup cleanup failed", "path", backupPath, "error", err)
	}
}

// RemovePartialInstall removes a directory left behind by a failed fresh
// install. Best effort, no-op if absent.
func (s *Store) RemovePartialInstall(targetDir string) {
	if targetDir == "" {
		return
	}
	if err := os.RemoveAll(targetDir); err != nil {
		log.Warnw("partial install cleanup failed", "path", targetDir, "error", err)
	}
}
