package docs

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/OceanicJS/Bot/internal/typedoc"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/time/rate"
)

// VersionPlaceholder is replaced by the requested version in source URLs
// and paths.
const VersionPlaceholder = "{version}"

// FetchInfo describes where an export came from.
type FetchInfo struct {
	Source   string
	Bytes    int64
	Duration time.Duration
}

// Fetcher retrieves the TypeDoc export of one library version.
type Fetcher interface {
	Fetch(ctx context.Context, version string) (*typedoc.Project, FetchInfo, error)
}

// HTTPFetcher downloads exports from the docs site. Requests share one rate
// limiter so a burst of generations does not hammer the site.
type HTTPFetcher struct {
	source  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher builds a fetcher for source, a URL containing
// VersionPlaceholder. perSecond <= 0 disables throttling.
func NewHTTPFetcher(source string, timeout time.Duration, perSecond float64) *HTTPFetcher {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &HTTPFetcher{
		source:  source,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (f *HTTPFetcher) URL(version string) string {
	return strings.ReplaceAll(f.source, VersionPlaceholder, version)
}

func (f *HTTPFetcher) Fetch(ctx context.Context, version string) (*typedoc.Project, FetchInfo, error) {
	info := FetchInfo{Source: f.URL(version)}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, info, errors.Wrap(err, "wait for fetch slot")
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.Source, nil)
	if err != nil {
		return nil, info, errors.Wrapf(err, "build request for %s", info.Source)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, info, errors.Wrapf(err, "fetch %s", info.Source)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, info, errors.Newf("fetch %s: unexpected status %d", info.Source, resp.StatusCode)
	}

	project, err := decodeCounting(resp.Body, &info)
	info.Duration = time.Since(start)
	if err != nil {
		return nil, info, errors.Wrapf(err, "decode %s", info.Source)
	}
	slogctx.Info(ctx, "Fetched docs export",
		"source", info.Source,
		"size", humanize.Bytes(uint64(info.Bytes)),
		"duration", info.Duration)
	return project, info, nil
}

// FileFetcher reads exports from the local filesystem. Path may contain
// VersionPlaceholder.
type FileFetcher struct {
	Path string
}

func (f FileFetcher) Fetch(ctx context.Context, version string) (*typedoc.Project, FetchInfo, error) {
	info := FetchInfo{Source: strings.ReplaceAll(f.Path, VersionPlaceholder, version)}
	start := time.Now()

	file, err := os.Open(info.Source)
	if err != nil {
		return nil, info, errors.Wrapf(err, "open %s", info.Source)
	}
	defer func() { _ = file.Close() }()

	project, err := decodeCounting(file, &info)
	info.Duration = time.Since(start)
	if err != nil {
		return nil, info, errors.Wrapf(err, "decode %s", info.Source)
	}
	slogctx.Debug(ctx, "Read docs export", "source", info.Source, "size", humanize.Bytes(uint64(info.Bytes)))
	return project, info, nil
}

func decodeCounting(r io.Reader, info *FetchInfo) (*typedoc.Project, error) {
	cr := &countingReader{r: r}
	project, err := typedoc.Decode(cr)
	info.Bytes = cr.n
	return project, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
