package testkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
)

// DocsSite serves a fake npm registry and docs site. Every supported
// version returns the same export read from a local file.
type DocsSite struct {
	// ExportPath is the TypeDoc export served for every version.
	ExportPath string
	// Versions are published to the registry; Latest is the dist-tag.
	Versions []string
	Latest   string

	server    *httptest.Server
	downloads atomic.Int64
}

func (s *DocsSite) GetName() string {
	return "docs-site"
}

// Start serves the site and returns its URLs as "registry_url" and
// "source_url".
func (s *DocsSite) Start() (map[string]any, error) {
	export, err := os.ReadFile(s.ExportPath)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/registry/", func(w http.ResponseWriter, r *http.Request) {
		versions := make(map[string]any, len(s.Versions))
		for _, v := range s.Versions {
			versions[v] = map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"dist-tags": map[string]string{"latest": s.Latest},
			"versions":  versions,
		})
	})
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/docs.json") {
			http.NotFound(w, r)
			return
		}
		s.downloads.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(export)
	})
	s.server = httptest.NewServer(mux)

	return map[string]any{
		"registry_url": s.server.URL + "/registry",
		"source_url":   s.server.URL + "/docs/v{version}/docs.json",
	}, nil
}

func (s *DocsSite) Stop() error {
	if s.server != nil {
		s.server.Close()
	}
	return nil
}

// Downloads counts the exports served so far.
func (s *DocsSite) Downloads() int64 {
	return s.downloads.Load()
}
