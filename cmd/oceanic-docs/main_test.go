package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecute_Version(t *testing.T) {
	err := Execute("1.0.0", "abc123", "oceanic-docs", []string{"--version"})
	if err != nil {
		t.Errorf("Expected no error for --version, got: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	err := Execute("1.0.0", "abc123", "oceanic-docs", []string{"--help"})
	if err != nil {
		t.Errorf("Expected no error for --help, got: %v", err)
	}
}

func TestExecute_InvalidFlag(t *testing.T) {
	err := Execute("1.0.0", "abc123", "oceanic-docs", []string{"--invalid-flag"})
	if err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestExecute_InvalidTransport(t *testing.T) {
	err := Execute("1.0.0", "abc123", "oceanic-docs", []string{"--transport", "invalid"})
	if err == nil {
		t.Fatal("Expected error for invalid transport")
	}
	if !strings.Contains(err.Error(), "transport") {
		t.Errorf("Expected error about transport, got: %v", err)
	}
}

func TestExecute_GenerateRequiresVersion(t *testing.T) {
	err := Execute("1.0.0", "abc123", "oceanic-docs", []string{"generate"})
	if err == nil {
		t.Error("Expected error for generate without versions")
	}
}

func TestExecute_GenerateFromFile(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "oceanic-docs", []string{
		"generate", "1.9.0",
		"--input", "../../internal/docs/testdata/project.json",
		"--data-dir", dir,
	})
	if err != nil {
		t.Fatalf("Expected generate to succeed, got: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs", "1.9.0.json")); err != nil {
		t.Errorf("Expected generated docs: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bot.db")); err != nil {
		t.Errorf("Expected database next to the docs: %v", err)
	}
}

func TestExecute_VersionsInvalidMinVersion(t *testing.T) {
	err := Execute("1.0.0", "abc123", "oceanic-docs", []string{"versions", "--min-version", "latest"})
	if err == nil {
		t.Error("Expected error for invalid minimum version")
	}
}

func TestRunMain_Success(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	// --help should succeed
	runMain([]string{"oceanic-docs", "--help"}, mockExit)

	if exitCode != -1 {
		t.Errorf("Expected no exit call for --help, got exit code: %d", exitCode)
	}
}

func TestRunMain_Failure(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	runMain([]string{"oceanic-docs", "--invalid"}, mockExit)

	if exitCode != 1 {
		t.Errorf("Expected exit code 1 for invalid flag, got: %d", exitCode)
	}
}
