package testkit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exportPath = "../../../internal/docs/testdata/project.json"

func startSite(t *testing.T) (*DocsSite, map[string]any) {
	t.Helper()
	site := &DocsSite{
		ExportPath: exportPath,
		Versions:   []string{"1.8.2", "1.9.0"},
		Latest:     "1.9.0",
	}
	props, err := site.Start()
	if err != nil {
		t.Fatalf("Failed to start docs site: %v", err)
	}
	t.Cleanup(func() { _ = site.Stop() })
	return site, props
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp.StatusCode, body
}

func TestDocsSite_Registry(t *testing.T) {
	_, props := startSite(t)

	registry, ok := props["registry_url"].(string)
	if !ok || registry == "" {
		t.Fatalf("Expected registry_url, got %v", props)
	}

	status, body := get(t, registry+"/oceanic.js")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	var doc struct {
		DistTags map[string]string         `json:"dist-tags"`
		Versions map[string]map[string]any `json:"versions"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("Failed to decode registry document: %v", err)
	}
	if doc.DistTags["latest"] != "1.9.0" {
		t.Errorf("Expected latest 1.9.0, got %q", doc.DistTags["latest"])
	}
	if len(doc.Versions) != 2 {
		t.Errorf("Expected 2 versions, got %v", doc.Versions)
	}
	for _, v := range []string{"1.8.2", "1.9.0"} {
		if _, ok := doc.Versions[v]; !ok {
			t.Errorf("Expected version %s in registry", v)
		}
	}
}

func TestDocsSite_CountsDownloads(t *testing.T) {
	site, props := startSite(t)

	source, ok := props["source_url"].(string)
	if !ok || !strings.Contains(source, "{version}") {
		t.Fatalf("Expected source_url with a version placeholder, got %v", props["source_url"])
	}

	want, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}

	for i, v := range []string{"1.8.2", "1.9.0"} {
		status, body := get(t, strings.ReplaceAll(source, "{version}", v))
		if status != http.StatusOK {
			t.Fatalf("Expected 200 for %s, got %d", v, status)
		}
		if string(body) != string(want) {
			t.Errorf("Expected the export for %s", v)
		}
		if got := site.Downloads(); got != int64(i+1) {
			t.Errorf("Expected %d downloads, got %d", i+1, got)
		}
	}

	// the registry and unknown paths are not downloads
	registry := props["registry_url"].(string)
	get(t, registry+"/oceanic.js")
	status, _ := get(t, strings.TrimSuffix(strings.ReplaceAll(source, "{version}", "1.9.0"), "docs.json")+"other.json")
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for a non-export path, got %d", status)
	}
	if got := site.Downloads(); got != 2 {
		t.Errorf("Expected 2 downloads, got %d", got)
	}
}

func TestDocsSite_MissingExport(t *testing.T) {
	site := &DocsSite{ExportPath: filepath.Join(t.TempDir(), "missing.json")}
	if _, err := site.Start(); err == nil {
		t.Fatal("Expected error for a missing export")
	}
	if err := site.Stop(); err != nil {
		t.Errorf("Expected Stop to succeed on an unstarted site, got %v", err)
	}
}

func TestTestEnv_MergesSiteProperties(t *testing.T) {
	site := &DocsSite{ExportPath: exportPath, Versions: []string{"1.9.0"}, Latest: "1.9.0"}
	env := NewTestEnv(site)

	props, err := env.Start()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, key := range []string{"registry_url", "source_url"} {
		if _, ok := props[key]; !ok {
			t.Errorf("Expected property %q, got %v", key, props)
		}
	}
	if err := env.Stop(); err != nil {
		t.Fatalf("Unexpected stop error: %v", err)
	}

	if _, err := http.Get(props["registry_url"].(string) + "/oceanic.js"); err == nil {
		t.Error("Expected the site to be stopped")
	}
}

func TestTestEnv_StartFailureStopsStarted(t *testing.T) {
	first := &DocsSite{ExportPath: exportPath, Versions: []string{"1.9.0"}, Latest: "1.9.0"}
	broken := &DocsSite{ExportPath: filepath.Join(t.TempDir(), "missing.json")}
	env := NewTestEnv(first, broken)

	_, err := env.Start()
	if err == nil {
		t.Fatal("Expected start error")
	}
	if !strings.HasPrefix(err.Error(), "docs-site: ") {
		t.Errorf("Expected the error to name the service, got %q", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
	if first.server == nil {
		t.Fatal("Expected the first site to have started")
	}
	if _, err := http.Get(first.server.URL + "/registry/oceanic.js"); err == nil {
		t.Error("Expected the first site to be stopped after the failure")
	}
}

func TestNewTestFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		flags := NewTestFlags(t, nil)

		transport, _ := flags.GetString("transport")
		if transport != "sse" {
			t.Errorf("Expected transport 'sse', got %s", transport)
		}

		port, _ := flags.GetInt("port")
		if port <= 0 {
			t.Errorf("Expected an assigned port, got %d", port)
		}

		dataDir, _ := flags.GetString("data-dir")
		info, err := os.Stat(dataDir)
		if err != nil || !info.IsDir() {
			t.Errorf("Expected data-dir to be an existing temp dir, got %q (%v)", dataDir, err)
		}

		source, _ := flags.GetString("source-url")
		registry, _ := flags.GetString("registry-url")
		if !flags.Changed("data-dir") || flags.Changed("source-url") || flags.Changed("registry-url") {
			t.Errorf("Expected only data-dir to be set, got source=%q registry=%q", source, registry)
		}
	})

	t.Run("separate temp dirs", func(t *testing.T) {
		a, _ := NewTestFlags(t, nil).GetString("data-dir")
		b, _ := NewTestFlags(t, nil).GetString("data-dir")
		if a == b {
			t.Errorf("Expected distinct data dirs, got %q twice", a)
		}
	})

	t.Run("docs options", func(t *testing.T) {
		dir := t.TempDir()
		flags := NewTestFlags(t, &FlagOptions{
			Port:        9999,
			Transport:   "stdio",
			DataDir:     dir,
			SourceURL:   "http://docs.test/v{version}/docs.json",
			RegistryURL: "http://registry.test",
		})

		port, _ := flags.GetInt("port")
		if port != 9999 {
			t.Errorf("Expected port 9999, got %d", port)
		}
		transport, _ := flags.GetString("transport")
		if transport != "stdio" {
			t.Errorf("Expected transport 'stdio', got %s", transport)
		}
		dataDir, _ := flags.GetString("data-dir")
		if dataDir != dir {
			t.Errorf("Expected data-dir %q, got %q", dir, dataDir)
		}
		source, _ := flags.GetString("source-url")
		if source != "http://docs.test/v{version}/docs.json" {
			t.Errorf("Expected source-url to be set, got %q", source)
		}
		registry, _ := flags.GetString("registry-url")
		if registry != "http://registry.test" {
			t.Errorf("Expected registry-url to be set, got %q", registry)
		}
	})

	t.Run("site urls", func(t *testing.T) {
		_, props := startSite(t)
		flags := NewTestFlags(t, &FlagOptions{
			SourceURL:   props["source_url"].(string),
			RegistryURL: props["registry_url"].(string),
		})

		source, _ := flags.GetString("source-url")
		if source != props["source_url"] {
			t.Errorf("Expected source-url %v, got %q", props["source_url"], source)
		}
		registry, _ := flags.GetString("registry-url")
		if registry != props["registry_url"] {
			t.Errorf("Expected registry-url %v, got %q", props["registry_url"], registry)
		}
	})
}

func TestMustGetFreePort(t *testing.T) {
	if port := MustGetFreePort(t); port <= 0 {
		t.Errorf("Expected positive port, got %d", port)
	}
}
