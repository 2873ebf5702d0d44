package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeDisplayName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Alice", "Alice"},
		{"trimmed", "  Bob  ", "Bob"},
		{"empty", "", DefaultDisplayName},
		{"whitespace only", "   ", DefaultDisplayName},
		{"truncated", strings.Repeat("x", 100), strings.Repeat("x", MaxDisplayNameLen)},
		{"multi-byte truncated", strings.Repeat("é", 100), strings.Repeat("é", MaxDisplayNameLen)},
		{"mixed runes kept whole", "日本語" + strings.Repeat("x", 100), "日本語" + strings.Repeat("x", MaxDisplayNameLen-3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeDisplayName(tt.in)
			if got != tt.want {
				t.Fatalf("SanitizeDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("SanitizeDisplayName(%q) produced invalid UTF-8", tt.in)
			}
		})
	}
}

func TestMemberStateTransitions(t *testing.T) {
	m := NewMember(NewMemberID(), "Alice")
	if m.Approved() || m.Ready() {
		t.Fatalf("new member should be pending, got %s", m.State)
	}

	// Readiness requires prior approval.
	m.MarkReady()
	if m.Ready() {
		t.Fatal("pending member must not become ready")
	}

	m.Approve()
	if !m.Approved() || m.Ready() {
		t.Fatalf("after approve: state = %s", m.State)
	}

	m.MarkReady()
	if !m.Ready() {
		t.Fatalf("after mark ready: state = %s", m.State)
	}

	// Approval survives call teardown.
	m.ClearReady()
	if m.Ready() {
		t.Fatal("clear ready should drop readiness")
	}
	if !m.Approved() {
		t.Fatal("clear ready must not revoke approval")
	}

	// Approve is idempotent and never regresses readiness.
	m.MarkReady()
	m.Approve()
	if !m.Ready() {
		t.Fatal("approve must not clear readiness")
	}
}

func TestNewMemberIDsUnique(t *testing.T) {
	seen := make(map[MemberID]bool)
	for range 100 {
		id := NewMemberID()
		if seen[id] {
			t.Fatalf("duplicate member id %s", id)
		}
		seen[id] = true
	}
}
