// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "ignored.html", "<html>")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Keep", "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "Keep"), "b.json", "{}")
	// The extension match is case-sensitive, like the export itself.
	writeFile(t, filepath.Join(dir, "Keep", "nested"), "c.JSON", "{}")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0o755))
	writeFile(t, filepath.Join(dir, ".hidden"), "d.json", "{}")

	paths, err := Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, ".hidden", "d.json"),
		filepath.Join(dir, "Keep", "b.json"),
		filepath.Join(dir, "a.json"),
	}, paths)
}

func TestDiscoverDescendsHiddenDirectories(t *testing.T) {
	// Takeout archives are sometimes unpacked under dot-directories; every
	// .json below the root is a note record regardless.
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".Takeout", "Keep"), 0o755))
	writeFile(t, filepath.Join(dir, ".Takeout", "Keep"), "note.json", "{}")

	paths, err := Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, ".Takeout", "Keep", "note.json")}, paths)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
