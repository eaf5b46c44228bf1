package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/storage"
)

func TestLocal_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	d, err := storage.NewLocal(t.TempDir(), "http://cdn.test/storage/")
	require.NoError(t, err)

	ok, err := d.Exists(ctx, "avatars/7.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Put(ctx, "avatars/7.jpg", strings.NewReader("v1")))
	require.NoError(t, d.Put(ctx, "avatars/7.jpg", strings.NewReader("v2")))

	rc, err := d.Get(ctx, "avatars/7.jpg")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "v2", string(body))

	assert.Equal(t, "http://cdn.test/storage/avatars/7.jpg", d.URL("/avatars/7.jpg"))

	require.NoError(t, d.Delete(ctx, "avatars/7.jpg"))
	require.NoError(t, d.Delete(ctx, "avatars/7.jpg"), "deleting twice is fine")

	_, err = d.Get(ctx, "avatars/7.jpg")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestLocal_PathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := storage.NewLocal(filepath.Join(root, "disk"), "")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "../../escape.txt", strings.NewReader("x")))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	ok, err := d.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocal_FileURLWithoutBase(t *testing.T) {
	d, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.URL("a.png"), "file://"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := storage.Open(storage.Config{Driver: "ftp"})
	assert.Error(t, err)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := storage.NewS3(context.Background(), storage.Config{Driver: "s3"})
	assert.Error(t, err)
}
