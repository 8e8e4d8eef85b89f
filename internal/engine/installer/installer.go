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
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Installer performs the actual install/update of plugin files. The engine
// treats it as opaque: any non-nil error is surfaced verbatim in result
// messages.
type Installer interface {
	// Install 全新安装：将包目录安装到 targetIdentity 对应的目录
	Install(ctx context.Context, packagePath, targetIdentity string) error
	// Update 升级：用包目录覆盖 targetIdentity 对应的目录
	Update(ctx context.Context, targetIdentity, packagePath string) error
}

// SlugOf extracts the install-target slug from a target identity of the
// form "slug/entry.ext". A bare slug maps to itself.
func SlugOf(targetIdentity string) string {
	if idx := strings.IndexByte(targetIdentity, '/'); idx > 0 {
		return targetIdentity[:idx]
	}
	return targetIdentity
}

func validatePackage(packagePath string) error {
	info, err := os.Stat(packagePath)
	if err != nil {
		return errors.Errorf("package directory does not exist: %s", packagePath)
	}
	if !info.IsDir() {
		return errors.Errorf("package path is not a directory: %s", packagePath)
	}
	return nil
}
