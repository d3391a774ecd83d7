package docs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/OceanicJS/Bot/internal/config"
	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/cockroachdb/errors"
	slogctx "github.com/veqryn/slog-context"
)

var (
	// ErrNotReady is returned while the docs of a version are generating.
	ErrNotReady = errors.New("docs not ready")

	// ErrUnknownVersion is returned for versions that are neither published
	// nor already generated.
	ErrUnknownVersion = errors.New("unknown version")
)

// ServiceOptions are the collaborators of a Service.
type ServiceOptions struct {
	SiteURL string
	Catalog *Catalog
	Store   VersionStore
	Fetcher Fetcher
	Reports ReportStore
	Lock    *GenerationLock
}

// Service answers docs queries and schedules generation of missing
// versions.
type Service struct {
	site      string
	catalog   *Catalog
	store     VersionStore
	reports   ReportStore
	queue     *Queue
	generator *Generator

	// schedule serializes the check-then-enqueue of EnsureVersionReady.
	schedule sync.Mutex

	mu        sync.Mutex
	searchers map[string]cachedSearch
	linkers   map[string]*Linker
}

// NewService builds a service from settings. Generation tasks run under
// ctx.
func NewService(ctx context.Context, settings *config.DocsSettings, reports ReportStore) (*Service, error) {
	if settings == nil {
		return nil, errors.New("settings cannot be nil")
	}

	store, err := NewFileStore(settings.DataDir)
	if err != nil {
		return nil, err
	}
	catalog, err := NewCatalog(settings.RegistryURL, settings.Package, settings.MinVersion, settings.FetchTimeout)
	if err != nil {
		return nil, err
	}

	return NewServiceWithOptions(ctx, ServiceOptions{
		SiteURL: settings.SiteURL,
		Catalog: catalog,
		Store:   store,
		Fetcher: NewHTTPFetcher(settings.SourceURL, settings.FetchTimeout, settings.FetchRate),
		Reports: reports,
		Lock:    NewGenerationLock(settings.DataDir, settings.LockTimeout),
	}), nil
}

func NewServiceWithOptions(ctx context.Context, opts ServiceOptions) *Service {
	queue := NewQueue(ctx)
	return &Service{
		site:      opts.SiteURL,
		catalog:   opts.Catalog,
		store:     opts.Store,
		reports:   opts.Reports,
		queue:     queue,
		generator: NewGenerator(opts.Fetcher, opts.Store, opts.Reports, NewGenerationLogs(), opts.Lock),
		searchers: make(map[string]cachedSearch),
		linkers:   make(map[string]*Linker),
	}
}

// Initialize loads the version catalog. A registry failure is logged, not
// returned, so already generated versions stay usable offline.
func (s *Service) Initialize(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		slogctx.Warn(ctx, "Version catalog unavailable, serving generated versions only", "error", err)
	}
}

// Run keeps the version catalog fresh until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.catalog.Run(ctx, interval)
}

func (s *Service) Catalog() *Catalog {
	return s.catalog
}

func (s *Service) Queue() *Queue {
	return s.queue
}

// ResolveVersion maps an empty version to the default one.
func (s *Service) ResolveVersion(version string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return s.catalog.Default()
	}
	return version
}

// EnsureVersionReady reports whether the docs of version can be queried.
// When they cannot, generation is scheduled unless it already is, and
// false is returned.
func (s *Service) EnsureVersionReady(ctx context.Context, version string) (bool, error) {
	version = s.ResolveVersion(version)
	if s.store.Exists(version) {
		return true, nil
	}
	if !s.catalog.Has(version) {
		return false, unknownVersion(version)
	}

	s.schedule.Lock()
	defer s.schedule.Unlock()
	if s.queue.Has(version) {
		return false, nil
	}

	slogctx.Info(ctx, "Scheduling docs generation", "version", version)
	s.queue.Add(version, func(ctx context.Context) error {
		_, err := s.generator.Generate(ctx, version)
		return err
	})
	return false, nil
}

// Load returns the docs of version, scheduling generation when missing.
func (s *Service) Load(ctx context.Context, version string) (*Root, error) {
	version = s.ResolveVersion(version)
	ready, err := s.EnsureVersionReady(ctx, version)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNotReady, "version %s", version),
			fmt.Sprintf("The docs for %s are being generated. Try again in a minute.", version),
		)
	}
	return s.store.Load(version)
}

// LookupResult is a found declaration or member with its docs page.
type LookupResult struct {
	Version string            `json:"version"`
	Kind    domain.Kind       `json:"kind"`
	Member  domain.MemberKind `json:"member,omitempty"`
	URL     string            `json:"url"`
	Record  any               `json:"record"`
}

// Lookup finds a declaration by kind and name. An empty kind searches
// classes, enums, interfaces and type aliases in that order.
func (s *Service) Lookup(ctx context.Context, version string, kind domain.Kind, name string) (LookupResult, error) {
	version = s.ResolveVersion(version)
	root, err := s.Load(ctx, version)
	if err != nil {
		return LookupResult{}, err
	}

	var record any
	var ok bool
	if kind == "" {
		var match Match
		match, ok = root.Find(name)
		kind, record = match.Kind, match.Value
	} else {
		record, ok = root.FindKind(kind, name)
	}
	if !ok {
		return LookupResult{}, notFound(version, "%s %s", kindLabel(kind), name)
	}

	module, declName := declaration(record)
	return LookupResult{
		Version: version,
		Kind:    kind,
		URL:     DocsURL(s.site, version, kind, module, declName, ""),
		Record:  record,
	}, nil
}

// LookupMember finds a member of a class or interface. Interfaces only
// have properties.
func (s *Service) LookupMember(ctx context.Context, version string, parentKind domain.Kind, parent string, memberKind domain.MemberKind, member string) (LookupResult, error) {
	version = s.ResolveVersion(version)
	root, err := s.Load(ctx, version)
	if err != nil {
		return LookupResult{}, err
	}

	result := LookupResult{Version: version, Kind: parentKind, Member: memberKind}
	switch parentKind {
	case domain.KindClass:
		class, ok := root.FindClass(parent)
		if !ok {
			return LookupResult{}, notFound(version, "class %s", parent)
		}
		ok = false
		var name string
		switch memberKind {
		case domain.MemberProperty:
			if p, found := class.FindProperty(member); found {
				ok, name, result.Record = true, p.Name, p
			}
		case domain.MemberAccessor:
			if a, found := class.FindAccessor(member); found {
				ok, name, result.Record = true, a.Name, a
			}
		case domain.MemberMethod:
			if m, found := class.FindMethod(member); found {
				ok, name, result.Record = true, m.Name, m
			}
		case domain.MemberEvent:
			if e, found := class.FindEvent(member); found {
				result.Kind = domain.KindInterface
				result.URL = DocsURL(s.site, version, domain.KindInterface, e.Module, e.Interface, e.Name)
				result.Record = e
				return result, nil
			}
		}
		if !ok {
			return LookupResult{}, notFound(version, "%s %s on class %s", memberKind, member, class.Name)
		}
		result.URL = DocsURL(s.site, version, domain.KindClass, class.Module, class.Name, name)
		return result, nil

	case domain.KindInterface:
		iface, ok := root.FindInterface(parent)
		if !ok {
			return LookupResult{}, notFound(version, "interface %s", parent)
		}
		if memberKind != domain.MemberProperty {
			return LookupResult{}, errors.WithHint(
				errors.Newf("interfaces have no %s members", memberKind),
				"Interfaces only document properties.",
			)
		}
		p, ok := iface.FindProperty(member)
		if !ok {
			return LookupResult{}, notFound(version, "property %s on interface %s", member, iface.Name)
		}
		result.Record = p
		result.URL = DocsURL(s.site, version, domain.KindInterface, iface.Module, iface.Name, p.Name)
		return result, nil
	}
	return LookupResult{}, errors.WithHint(
		errors.Newf("%s declarations have no members", parentKind),
		"Only classes and interfaces have members.",
	)
}

// LinkType turns rendered type text of version into linked markdown.
func (s *Service) LinkType(ctx context.Context, version, text string) (string, error) {
	linker, err := s.linker(ctx, s.ResolveVersion(version))
	if err != nil {
		return "", err
	}
	return linker.Link(text), nil
}

func (s *Service) linker(ctx context.Context, version string) (*Linker, error) {
	root, err := s.Load(ctx, version)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	linker, ok := s.linkers[version]
	if !ok {
		linker = NewLinker(s.site, version, root)
		s.linkers[version] = linker
	}
	return linker, nil
}

// VersionsInfo lists the versions known to the service.
type VersionsInfo struct {
	Versions  []string `json:"versions"`
	Default   string   `json:"default"`
	Generated []string `json:"generated"`
}

func (s *Service) Versions() VersionsInfo {
	info := VersionsInfo{
		Versions:  s.catalog.Versions(),
		Default:   s.catalog.Default(),
		Generated: []string{},
	}
	if fs, ok := s.store.(*FileStore); ok {
		info.Generated = fs.Manifest().Generated()
	}
	return info
}

// Status describes the generation state of one version.
type Status struct {
	Version string `json:"version"`
	Ready   bool   `json:"ready"`
	Queued  bool   `json:"queued"`
	Current string `json:"current,omitempty"`
	Pending int    `json:"pending"`
}

// Status checks version, scheduling its generation when it is missing.
func (s *Service) Status(ctx context.Context, version string) (Status, error) {
	version = s.ResolveVersion(version)
	ready, err := s.EnsureVersionReady(ctx, version)
	if err != nil {
		return Status{}, err
	}
	current, _ := s.queue.Current()
	return Status{
		Version: version,
		Ready:   ready,
		Queued:  !ready && s.queue.Has(version),
		Current: current,
		Pending: s.queue.Len(),
	}, nil
}

// Report returns the latest generation report of version.
func (s *Service) Report(ctx context.Context, version string) (domain.Report, error) {
	version = s.ResolveVersion(version)
	if s.reports == nil {
		return domain.Report{}, notFound(version, "generation report")
	}
	report, err := s.reports.LatestReport(ctx, version)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Report{}, notFound(version, "generation report")
	}
	return report, err
}

// Close releases the search indexes.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs error
	for key, entry := range s.searchers {
		errs = errors.CombineErrors(errs, entry.searcher.Close())
		delete(s.searchers, key)
	}
	return errs
}

func unknownVersion(version string) error {
	return errors.WithHint(
		errors.Wrapf(ErrUnknownVersion, "%q", version),
		fmt.Sprintf("%s is not a supported version. Pick one of the listed versions.", version),
	)
}

func notFound(version, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	return errors.WithHint(
		errors.Wrapf(domain.ErrNotFound, "%s in %s", what, version),
		fmt.Sprintf("Could not find %s in version %s.", what, version),
	)
}

func kindLabel(kind domain.Kind) string {
	if kind == "" {
		return "declaration"
	}
	return string(kind)
}

// declaration returns the module and name of a found record.
func declaration(record any) (module, name string) {
	switch v := record.(type) {
	case *Class:
		return v.Module, v.Name
	case *Interface:
		return v.Module, v.Name
	case *Enum:
		return v.Module, v.Name
	case *TypeAlias:
		return v.Module, v.Name
	case *Variable:
		return v.Module, v.Name
	case *Function:
		return v.Module, v.Name
	case *Reference:
		return "", v.Name
	}
	return "", ""
}
