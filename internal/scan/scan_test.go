package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<gpx/>"), 0o600))

	return path
}

func TestFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	b := touch(t, filepath.Join(dir, "rides", "b.gpx"))
	a := touch(t, filepath.Join(dir, "a.gpx"))
	upper := touch(t, filepath.Join(dir, "rides", "2021", "c.GPX"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "rides", "track.tcx"))

	files, err := Files(dir, ".gpx")
	require.NoError(t, err)
	assert.Equal(t, []string{a, upper, b}, files)
}

func TestFilesSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.gpx"))
	touch(t, filepath.Join(dir, "a.gpx"))
	touch(t, filepath.Join(dir, "m.gpx"))

	files, err := Files(dir, ".gpx")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.True(t, files[0] < files[1] && files[1] < files[2])
}

func TestFilesSingleFileRoot(t *testing.T) {
	path := touch(t, filepath.Join(t.TempDir(), "ride.gpx"))

	files, err := Files(path, ".gpx")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFilesWrongSingleFile(t *testing.T) {
	path := touch(t, filepath.Join(t.TempDir(), "notes.txt"))

	_, err := Files(path, ".gpx")
	assert.Error(t, err)
}

func TestFilesMissingRoot(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "nope"), ".gpx")
	assert.Error(t, err)
}

func TestFilesEmptyDir(t *testing.T) {
	files, err := Files(t.TempDir(), ".gpx")
	require.NoError(t, err)
	assert.Empty(t, files)
}
