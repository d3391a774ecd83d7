package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// ManifestVersion is the current manifest schema version
	ManifestVersion = 1

	// ManifestFilename is the manifest filename inside the docs directory
	ManifestFilename = "manifest.json"
)

// Manifest records which versions have a stored Root.
type Manifest struct {
	Version  int                     `json:"version"`
	Versions map[string]VersionEntry `json:"versions"`
	mu       sync.RWMutex            `json:"-"`
}

// VersionEntry describes one stored Root.
type VersionEntry struct {
	GeneratedAt time.Time `json:"generated_at"`
	Bytes       int64     `json:"bytes"`
	Counts      Counts    `json:"counts"`
}

func NewManifest() *Manifest {
	return &Manifest{
		Version:  ManifestVersion,
		Versions: make(map[string]VersionEntry),
	}
}

// LoadManifest reads a manifest from disk, or returns an empty one if the
// file does not exist yet.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, errors.Wrap(err, "failed to read manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest")
	}
	if manifest.Versions == nil {
		manifest.Versions = make(map[string]VersionEntry)
	}
	return &manifest, nil
}

// Save writes the manifest to path atomically.
func (m *Manifest) Save(path string) error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	return writeFileAtomic(path, data)
}

func (m *Manifest) Set(version string, entry VersionEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Versions[version] = entry
}

func (m *Manifest) Get(version string) (VersionEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.Versions[version]
	return entry, ok
}

// Generated returns the recorded versions in lexical order.
func (m *Manifest) Generated() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.Versions))
	for v := range m.Versions {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", tempPath)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrapf(err, "failed to rename %s", tempPath)
	}
	return nil
}
