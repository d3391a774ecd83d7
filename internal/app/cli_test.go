package app

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestRegisterFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	// Every setting key must have a flag
	expectedFlags := []string{
		"transport",
		"host",
		"port",
		"data-dir",
		"source-url",
		"site-url",
		"registry-url",
		"package",
		"min-version",
		"fetch-timeout",
		"fetch-rate",
		"lock-timeout",
		"refresh-interval",
		"storage-path",
		"max-snipes",
		"log-level",
		"log-format",
	}

	for _, name := range expectedFlags {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected flag %q to be registered", name)
		}
	}
}

func TestRegisterFlags_Shorthand(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	shorthandFlags := map[string]string{
		"transport": "t",
		"host":      "H",
		"port":      "p",
		"data-dir":  "d",
		"log-level": "l",
	}

	for name, shorthand := range shorthandFlags {
		flag := flags.Lookup(name)
		if flag == nil {
			t.Errorf("Flag %q not found", name)
			continue
		}
		if flag.Shorthand != shorthand {
			t.Errorf("Flag %q expected shorthand %q, got %q", name, shorthand, flag.Shorthand)
		}
	}
}

func TestRegisterFlags_SetValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	err := flags.Parse([]string{
		"--transport", "sse",
		"--port", "9090",
		"--fetch-timeout", "30s",
		"--fetch-rate", "2.5",
		"--max-snipes", "20",
	})
	if err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	transport, _ := flags.GetString("transport")
	if transport != "sse" {
		t.Errorf("Expected transport 'sse', got '%s'", transport)
	}

	port, _ := flags.GetInt("port")
	if port != 9090 {
		t.Errorf("Expected port 9090, got %d", port)
	}

	timeout, _ := flags.GetDuration("fetch-timeout")
	if timeout != 30*time.Second {
		t.Errorf("Expected fetch-timeout 30s, got %s", timeout)
	}

	rate, _ := flags.GetFloat64("fetch-rate")
	if rate != 2.5 {
		t.Errorf("Expected fetch-rate 2.5, got %v", rate)
	}

	snipes, _ := flags.GetInt("max-snipes")
	if snipes != 20 {
		t.Errorf("Expected max-snipes 20, got %d", snipes)
	}
}
