package fs_test

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/ghe-archiver/internal/fs"
)

func TestOSFSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	osfs := fs.New()

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, osfs.MkdirAll(nested))

	path := filepath.Join(nested, "file.tar")
	require.NoError(t, osfs.WriteFile(path, []byte("content")))

	info, err := osfs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len("content")), info.Size)

	entries, err := osfs.ReadDir(nested)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file.tar", entries[0].Name())

	renamed := filepath.Join(nested, "renamed.tar")
	require.NoError(t, osfs.Rename(path, renamed))
	require.NoError(t, osfs.Remove(renamed))

	_, err = osfs.Stat(renamed)
	assert.True(t, os.IsNotExist(err))
}

func TestOSFSEvalSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	link := filepath.Join(dir, "current")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	osfs := fs.New()
	got, err := osfs.EvalSymlinks(link)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = osfs.EvalSymlinks(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestOSFSCreate(t *testing.T) {
	dir := t.TempDir()
	f, err := fs.New().Create(filepath.Join(dir, "out.tar"))
	require.NoError(t, err)

	_, err = f.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(dir, "out.tar"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestOSFSStatDirAndSub(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{}"), 0o644))
	osfs := fs.New()

	info, err := osfs.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	info, err = osfs.Stat(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.False(t, info.IsDir)

	data, err := iofs.ReadFile(osfs.Sub(dir), "settings.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
