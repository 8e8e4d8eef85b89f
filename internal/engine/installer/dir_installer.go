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

package installer

import (
	"context"
	"path/filepath"

	"github.com/go-hangar/hangar/pkg/backup"
	"github.com/pkg/errors"
)

// DirInstaller installs plugins by copying an already extracted package
// directory into {pluginsDir}/{slug}. ZIP extraction and structural
// validation happen upstream; this installer only moves files.
type DirInstaller struct {
	pluginsDir string
}

func NewDirInstaller(pluginsDir string) *DirInstaller {
	return &DirInstaller{pluginsDir: pluginsDir}
}

// TargetDir 返回 targetIdentity 对应的安装目录
func (di *DirInstaller) TargetDir(targetIdentity string) string {
	return filepath.Join(di.pluginsDir, SlugOf(targetIdentity))
}

func (di *DirInstaller) Install(ctx context.Context, packagePath, targetIdentity string) error {
	if err := validatePackage(packagePath); err != nil {
		return err
	}

	targetDir := di.TargetDir(targetIdentity)
	if err := backup.CopyDir(packagePath, targetDir); err != nil {
		return errors.Wrapf(err, "install %s", targetIdentity)
	}
	return nil
}

func (di *DirInstaller) Update(ctx context.Context, targetIdentity, packagePath string) error {
	if err := validatePackage(packagePath); err != nil {
		return err
	}

	// 覆盖式升级，旧目录已由调用方备份
	targetDir := di.TargetDir(targetIdentity)
	if err := backup.CopyDir(packagePath, targetDir); err != nil {
		return errors.Wrapf(err, "update %s", targetIdentity)
	}
	return nil
}
