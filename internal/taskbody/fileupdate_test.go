package taskbody

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcron.dev/fleetcron/internal/model"
)

func TestFileUpdate_Run_DownloadsAndWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "out.txt")
	f := &FileUpdate{Spec: model.FileSpec{Source: srv.URL, Destination: dest}}

	result, err := f.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Status)
	assert.Equal(t, int32(0), *result.Status)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestFileUpdate_Run_OverwritesExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new content"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(dest, []byte("old content"), 0o644))

	f := &FileUpdate{Spec: model.FileSpec{Source: srv.URL, Destination: dest}}
	_, err := f.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestFileUpdate_Run_HTTPErrorStatus_IsNetError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := &FileUpdate{Spec: model.FileSpec{Source: srv.URL, Destination: filepath.Join(t.TempDir(), "out.txt")}}
	_, err := f.Run(context.Background())

	require.Error(t, err)
	var netErr *model.ErrNetError
	assert.ErrorAs(t, err, &netErr)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandTilde("~"))
	assert.Equal(t, filepath.Join(home, "foo"), expandTilde("~/foo"))
	assert.Equal(t, "/abs/path", expandTilde("/abs/path"))
}
