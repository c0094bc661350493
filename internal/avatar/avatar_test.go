package avatar

import (
	"context"
	"errors"
	"testing"
)

func TestInitials(t *testing.T) {
	cases := []struct {
		name, email, want string
	}{
		{"Alice Walker", "alice@asu.edu", "AW"},
		{"Alice Mary Walker", "alice@asu.edu", "AW"},
		{"alice", "alice@asu.edu", "A"},
		{"", "bob@example.com", "B"},
		{"", "", "?"},
	}
	for _, tc := range cases {
		if got := Initials(tc.name, tc.email); got != tc.want {
			t.Fatalf("Initials(%q, %q) = %q, want %q", tc.name, tc.email, got, tc.want)
		}
	}
}

func TestAccentColorDeterministic(t *testing.T) {
	a := AccentColor("alice@asu.edu")
	b := AccentColor("  ALICE@asu.edu ")
	if a != b {
		t.Fatalf("same normalized email mapped to %s and %s", a, b)
	}
	found := false
	for _, c := range palette {
		if c == a {
			found = true
		}
	}
	if !found {
		t.Fatalf("color %s not in palette", a)
	}
}

type stubLookup struct {
	ref string
	err error
}

func (s stubLookup) AvatarFor(context.Context, string) (string, error) {
	return s.ref, s.err
}

func TestServiceFallsBackSilently(t *testing.T) {
	svc := NewService(stubLookup{err: errors.New("network down")})
	if got := svc.AvatarFor(context.Background(), "alice@asu.edu"); got != "" {
		t.Fatalf("failed lookup returned %q, want empty fallback", got)
	}

	svc = NewService(nil)
	if got := svc.AvatarFor(context.Background(), "alice@asu.edu"); got != "" {
		t.Fatalf("nil lookup returned %q", got)
	}
}

func TestServiceReturnsLookupResult(t *testing.T) {
	svc := NewService(stubLookup{ref: "avatar-123"})
	if got := svc.AvatarFor(context.Background(), "alice@asu.edu"); got != "avatar-123" {
		t.Fatalf("AvatarFor = %q", got)
	}
}
