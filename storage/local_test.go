package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	return s, dir
}

func TestNewLocalStorage(t *testing.T) {
	s, dir := newLocal(t)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, s.BaseDir())

	_, err = NewLocalStorage("")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStorage_UploadAndDownload(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocal(t)

	require.NoError(t, s.Upload(ctx, "reports/complexity_indices.csv", strings.NewReader("app_id,wcs\nmovies,0.1341\n")))

	data, err := os.ReadFile(filepath.Join(dir, "reports", "complexity_indices.csv"))
	require.NoError(t, err)
	assert.Equal(t, "app_id,wcs\nmovies,0.1341\n", string(data))

	rc, err := s.Download(ctx, "reports/complexity_indices.csv")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// Overwrite in place and leave no temporary files behind.
	require.NoError(t, s.Upload(ctx, "reports/complexity_indices.csv", strings.NewReader("x")))
	entries, err := os.ReadDir(filepath.Join(dir, "reports"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "complexity_indices.csv", entries[0].Name())
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLocalStorage_UploadFailureKeepsOldFile(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocal(t)
	require.NoError(t, s.Upload(ctx, "a.json", bytes.NewBufferString(`{"ok":true}`)))

	err := s.Upload(ctx, "a.json", brokenReader{})
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorage_ExistsDeleteGetURL(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocal(t)

	ok, err := s.Exists(ctx, "report.html")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetURL(ctx, "report.html")
	assert.ErrorIs(t, err, ErrFileNotFound)

	require.NoError(t, s.Upload(ctx, "report.html", strings.NewReader("<html></html>")))
	ok, err = s.Exists(ctx, "report.html")
	require.NoError(t, err)
	assert.True(t, ok)

	url, err := s.GetURL(ctx, "report.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.html"), url)

	require.NoError(t, s.Delete(ctx, "report.html"))
	assert.ErrorIs(t, s.Delete(ctx, "report.html"), ErrFileNotFound)

	_, err = s.Download(ctx, "report.html")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_RejectsBadPaths(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocal(t)

	for _, p := range []string{"", ".", "..", "../escape.csv", "a/../../escape.csv", "/etc/passwd"} {
		t.Run(p, func(t *testing.T) {
			err := s.Upload(ctx, p, strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestLocalStorage_UploadCancelled(t *testing.T) {
	s, _ := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Upload(ctx, "a.csv", strings.NewReader("x")), context.Canceled)
}
