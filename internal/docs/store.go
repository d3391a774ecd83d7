package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidVersion is returned for version strings unusable as file names.
var ErrInvalidVersion = errors.New("invalid version")

var versionNamePattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.+\-]*$`)

// VersionStore persists one Root per version.
type VersionStore interface {
	Exists(version string) bool
	Load(version string) (*Root, error)
	Save(version string, root *Root) error
}

// FileStore keeps each Root as {dir}/{version}.json next to a manifest.
// Loaded Roots are cached; they are never modified after Save.
type FileStore struct {
	dir      string
	manifest *Manifest

	mu    sync.RWMutex
	cache map[string]*Root
}

// NewFileStore opens the docs directory under dataDir, creating it if
// needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	dir := filepath.Join(dataDir, "docs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create docs directory")
	}
	manifest, err := LoadManifest(filepath.Join(dir, ManifestFilename))
	if err != nil {
		return nil, err
	}
	return &FileStore{
		dir:      dir,
		manifest: manifest,
		cache:    make(map[string]*Root),
	}, nil
}

func (s *FileStore) Manifest() *Manifest {
	return s.manifest
}

func (s *FileStore) path(version string) (string, error) {
	if !versionNamePattern.MatchString(version) {
		return "", errors.Wrapf(ErrInvalidVersion, "%q", version)
	}
	return filepath.Join(s.dir, version+".json"), nil
}

func (s *FileStore) Exists(version string) bool {
	s.mu.RLock()
	_, cached := s.cache[version]
	s.mu.RUnlock()
	if cached {
		return true
	}

	path, err := s.path(version)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (s *FileStore) Load(version string) (*Root, error) {
	s.mu.RLock()
	root, ok := s.cache[version]
	s.mu.RUnlock()
	if ok {
		return root, nil
	}

	path, err := s.path(version)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read docs for %s", version)
	}
	root = &Root{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, errors.Wrapf(err, "failed to parse docs for %s", version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[version]; ok {
		return existing, nil
	}
	s.cache[version] = root
	return root, nil
}

func (s *FileStore) Save(version string, root *Root) error {
	path, err := s.path(version)
	if err != nil {
		return err
	}
	data, err := json.Marshal(root)
	if err != nil {
		return errors.Wrap(err, "failed to marshal docs")
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[version] = root
	s.mu.Unlock()

	s.manifest.Set(version, VersionEntry{
		GeneratedAt: time.Now().UTC(),
		Bytes:       int64(len(data)),
		Counts:      root.Counts(),
	})
	return s.manifest.Save(filepath.Join(s.dir, ManifestFilename))
}
