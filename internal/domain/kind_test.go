package domain

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"class", KindClass},
		{"Interface", KindInterface},
		{" enum ", KindEnum},
		{"typeAlias", KindTypeAlias},
		{"type", KindTypeAlias},
		{"FUNCTION", KindFunction},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseKind_UnknownCarriesHint(t *testing.T) {
	_, err := ParseKind("namespace")
	if err == nil {
		t.Fatal("expected error")
	}
	if hint := errors.FlattenHints(err); hint == "" {
		t.Error("expected a user-facing hint")
	}
}

func TestParseMemberKind(t *testing.T) {
	for _, in := range []string{"property", "Accessor", "method", "EVENT"} {
		if _, err := ParseMemberKind(in); err != nil {
			t.Errorf("ParseMemberKind(%q) error: %v", in, err)
		}
	}
	if _, err := ParseMemberKind("field"); err == nil {
		t.Error("expected error for unknown member kind")
	}
}
