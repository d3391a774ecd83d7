package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/time/rate"
)

// npmAbbreviatedMetadata is the registry's install-only package document.
const npmAbbreviatedMetadata = "application/vnd.npm.install-v1+json"

// Catalog tracks which library versions are published and supported.
// Prereleases and versions older than the minimum are never listed.
type Catalog struct {
	registry string
	pkg      string
	floor    *semver.Version
	client   *http.Client
	limiter  *rate.Limiter

	mu        sync.RWMutex
	versions  []string
	latest    string
	refreshed time.Time
}

type registryPackage struct {
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// NewCatalog returns an empty catalog for pkg on the npm registry at
// registry. Call Refresh or Set before use.
func NewCatalog(registry, pkg, minVersion string, timeout time.Duration) (*Catalog, error) {
	floor, err := semver.NewVersion(minVersion)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid minimum version %q", minVersion)
	}
	return &Catalog{
		registry: strings.TrimSuffix(registry, "/"),
		pkg:      pkg,
		floor:    floor,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// Refresh reloads the published versions from the registry. On failure the
// previous list is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "wait for registry slot")
	}

	endpoint := c.registry + "/" + url.PathEscape(c.pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrapf(err, "build request for %s", endpoint)
	}
	req.Header.Set("Accept", npmAbbreviatedMetadata)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "query registry for %s", c.pkg)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf("query registry for %s: unexpected status %d", c.pkg, resp.StatusCode)
	}

	var doc registryPackage
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return errors.Wrapf(err, "decode registry metadata for %s", c.pkg)
	}

	published := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		published = append(published, v)
	}
	c.Set(published, doc.DistTags["latest"])

	c.mu.RLock()
	count, latest := len(c.versions), c.latest
	c.mu.RUnlock()
	slogctx.Info(ctx, "Refreshed version catalog", "package", c.pkg, "versions", count, "default", latest)
	return nil
}

// Set replaces the catalog with the supported subset of published.
func (c *Catalog) Set(published []string, latest string) {
	versions := supportedVersions(published, c.floor)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions = versions
	c.latest = latest
	c.refreshed = time.Now()
}

// Run refreshes the catalog every interval until ctx is done. A
// non-positive interval disables refreshing.
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				slogctx.Warn(ctx, "Version catalog refresh failed", "error", err)
			}
		}
	}
}

// Versions returns the supported versions in ascending order.
func (c *Catalog) Versions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.versions)
}

// Default is the registry's latest tag, or the newest supported version
// when that tag is not itself supported.
func (c *Catalog) Default() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if slices.Contains(c.versions, c.latest) {
		return c.latest
	}
	if len(c.versions) == 0 {
		return ""
	}
	return c.versions[len(c.versions)-1]
}

func (c *Catalog) Has(version string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.versions, version)
}

func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}

func supportedVersions(published []string, floor *semver.Version) []string {
	parsed := make(semver.Collection, 0, len(published))
	for _, raw := range published {
		v, err := semver.StrictNewVersion(raw)
		if err != nil || v.Prerelease() != "" || v.LessThan(floor) {
			continue
		}
		parsed = append(parsed, v)
	}
	sort.Sort(parsed)

	out := make([]string, 0, len(parsed))
	for _, v := range parsed {
		out = append(out, v.Original())
	}
	return out
}
