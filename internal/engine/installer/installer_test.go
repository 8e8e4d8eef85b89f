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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugOf(t *testing.T) {
	assert.Equal(t, "akismet", SlugOf("akismet/akismet.php"))
	assert.Equal(t, "hello-dolly", SlugOf("hello-dolly"))
	assert.Equal(t, "a", SlugOf("a/b/c"))
}

func seedPackage(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDirInstaller_Install(t *testing.T) {
	base := t.TempDir()
	pluginsDir := filepath.Join(base, "plugins")
	pkg := filepath.Join(base, "pkg", "akismet")
	seedPackage(t, pkg, map[string]string{
		"akismet.php":    "<?php // v1",
		"views/form.php": "<?php // form",
	})

	di := NewDirInstaller(pluginsDir)
	require.NoError(t, di.Install(context.Background(), pkg, "akismet/akismet.php"))

	raw, err := os.ReadFile(filepath.Join(pluginsDir, "akismet", "akismet.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php // v1", string(raw))

	_, err = os.Stat(filepath.Join(pluginsDir, "akismet", "views", "form.php"))
	assert.NoError(t, err)
}

func TestDirInstaller_Update(t *testing.T) {
	base := t.TempDir()
	pluginsDir := filepath.Join(base, "plugins")
	seedPackage(t, filepath.Join(pluginsDir, "akismet"), map[string]string{
		"akismet.php": "<?php // v1",
	})
	pkg := filepath.Join(base, "pkg", "akismet")
	seedPackage(t, pkg, map[string]string{
		"akismet.php": "<?php // v2",
	})

	di := NewDirInstaller(pluginsDir)
	require.NoError(t, di.Update(context.Background(), "akismet/akismet.php", pkg))

	raw, err := os.ReadFile(filepath.Join(pluginsDir, "akismet", "akismet.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php // v2", string(raw))
}

func TestDirInstaller_MissingPackage(t *testing.T) {
	base := t.TempDir()
	di := NewDirInstaller(filepath.Join(base, "plugins"))

	err := di.Install(context.Background(), filepath.Join(base, "nope"), "x/x.php")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package directory does not exist")

	// a file is not a valid package either
	file := filepath.Join(base, "archive.zip")
	require.NoError(t, os.WriteFile(file, []byte("zip"), 0o644))
	err = di.Update(context.Background(), "x/x.php", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestDirInstaller_TargetDir(t *testing.T) {
	di := NewDirInstaller("/srv/plugins")
	assert.Equal(t, filepath.Join("/srv/plugins", "akismet"), di.TargetDir("akismet/akismet.php"))
}
