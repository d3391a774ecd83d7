package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocsSite(t *testing.T) *httptest.Server {
	t.Helper()
	fixture, err := os.ReadFile("testdata/project.json")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1.9.0/docs.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture)
	})
	mux.HandleFunc("/v1.0.0/docs.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := newDocsSite(t)
	f := NewHTTPFetcher(srv.URL+"/v{version}/docs.json", 5*time.Second, 0)

	project, info, err := f.Fetch(context.Background(), "1.9.0")
	require.NoError(t, err)
	assert.Equal(t, "oceanic.js", project.Name)
	assert.Equal(t, srv.URL+"/v1.9.0/docs.json", info.Source)
	assert.Positive(t, info.Bytes)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	srv := newDocsSite(t)
	f := NewHTTPFetcher(srv.URL+"/v{version}/docs.json", 5*time.Second, 100)

	t.Run("not found", func(t *testing.T) {
		_, _, err := f.Fetch(context.Background(), "9.9.9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 404")
	})

	t.Run("invalid body", func(t *testing.T) {
		_, _, err := f.Fetch(context.Background(), "1.0.0")
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := f.Fetch(ctx, "1.9.0")
		assert.Error(t, err)
	})
}

func TestFileFetcher_Fetch(t *testing.T) {
	fixture, err := os.ReadFile("testdata/project.json")
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.9.0.json"), fixture, 0o644))

	f := FileFetcher{Path: filepath.Join(dir, "{version}.json")}
	project, info, err := f.Fetch(context.Background(), "1.9.0")
	require.NoError(t, err)
	assert.Equal(t, "oceanic.js", project.Name)
	assert.Positive(t, info.Bytes)

	_, _, err = f.Fetch(context.Background(), "2.0.0")
	assert.Error(t, err)
}
