package testkit

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/OceanicJS/Bot/internal/app"
	"github.com/spf13/pflag"
)

// Service is a fake dependency started for the duration of a test.
type Service interface {
	Start() (map[string]any, error)
	Stop() error
	GetName() string
}

// TestEnv starts services in order and merges the properties they report.
type TestEnv struct {
	services []Service
	started  []Service
}

// NewTestEnv creates an environment for the given services.
func NewTestEnv(services ...Service) *TestEnv {
	return &TestEnv{services: services}
}

// Start starts every service. When one fails, those already started are
// stopped and the error names the failing service.
func (e *TestEnv) Start() (map[string]any, error) {
	props := make(map[string]any)
	for _, s := range e.services {
		p, err := s.Start()
		if err != nil {
			_ = e.Stop()
			return nil, fmt.Errorf("%s: %w", s.GetName(), err)
		}
		e.started = append(e.started, s)
		for k, v := range p {
			props[k] = v
		}
	}
	return props, nil
}

// Stop stops the started services in reverse order.
func (e *TestEnv) Stop() error {
	var errs []error
	for i := len(e.started) - 1; i >= 0; i-- {
		if err := e.started[i].Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	e.started = nil
	return errors.Join(errs...)
}

// MustGetFreePort returns a port the kernel reports free, or fails the test.
func MustGetFreePort(t testing.TB) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("Failed to get free port: %v", err)
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

// FlagOptions configures NewTestFlags
type FlagOptions struct {
	Port        int    // Uses free port if 0
	Transport   string // Defaults to "sse"
	Host        string // Defaults to "localhost"
	DataDir     string // Uses a test temp dir if empty
	SourceURL   string // Left at the default if empty
	RegistryURL string // Left at the default if empty
}

// NewTestFlags creates a configured pflag.FlagSet for testing
func NewTestFlags(t testing.TB, opts *FlagOptions) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	app.RegisterFlags(flags)

	o := FlagOptions{Transport: "sse", Host: "localhost"}
	if opts != nil {
		if opts.Port != 0 {
			o.Port = opts.Port
		}
		if opts.Transport != "" {
			o.Transport = opts.Transport
		}
		if opts.Host != "" {
			o.Host = opts.Host
		}
		o.DataDir = opts.DataDir
		o.SourceURL = opts.SourceURL
		o.RegistryURL = opts.RegistryURL
	}

	if o.Port == 0 {
		o.Port = MustGetFreePort(t)
	}
	if o.DataDir == "" {
		o.DataDir = t.TempDir()
	}

	_ = flags.Set("port", fmt.Sprintf("%d", o.Port))
	_ = flags.Set("transport", o.Transport)
	_ = flags.Set("host", o.Host)
	_ = flags.Set("data-dir", o.DataDir)
	if o.SourceURL != "" {
		_ = flags.Set("source-url", o.SourceURL)
	}
	if o.RegistryURL != "" {
		_ = flags.Set("registry-url", o.RegistryURL)
	}

	return flags
}
