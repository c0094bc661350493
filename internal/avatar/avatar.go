// Package avatar derives presentation hints (initials, accent color) for an
// identity and optionally resolves avatar images through a pluggable lookup
// service. Nothing here affects core state; lookup failures fall back
// silently to the derived values.
package avatar

import (
	"context"
	"strings"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/singleflight"

	"tally/internal/auth"
)

// palette holds the accent colors an identity can be assigned. Assignment is
// deterministic per email so the same account always renders the same color.
var palette = []string{
	"#3AA99F", // teal
	"#4385BE", // blue
	"#879A39", // green
	"#D0A215", // yellow
	"#DA702C", // orange
	"#CE5D97", // magenta
	"#8B7EC8", // purple
	"#D14D41", // red
}

// Initials returns up to two upper-cased letters for a display name, falling
// back to the email's first letter when the name is blank.
func Initials(name, email string) string {
	words := strings.Fields(strings.TrimSpace(name))
	switch {
	case len(words) >= 2:
		return strings.ToUpper(firstRune(words[0]) + firstRune(words[len(words)-1]))
	case len(words) == 1:
		return strings.ToUpper(firstRune(words[0]))
	}

	email = auth.NormalizeEmail(email)
	if email == "" {
		return "?"
	}
	return strings.ToUpper(firstRune(email))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// AccentColor picks a palette color keyed by the normalized email.
func AccentColor(email string) string {
	sum := sha3.Sum256([]byte(auth.NormalizeEmail(email)))
	return palette[int(sum[0])%len(palette)]
}

// Lookup resolves an avatar image reference for an email. Implementations
// live in the presentation layer; the core never depends on their results.
type Lookup interface {
	AvatarFor(ctx context.Context, email string) (string, error)
}

// Service wraps a Lookup, deduplicating concurrent requests for the same
// email and swallowing failures.
type Service struct {
	lookup Lookup
	group  singleflight.Group
}

// NewService wraps lookup; a nil lookup yields a service that always falls
// back.
func NewService(lookup Lookup) *Service {
	return &Service{lookup: lookup}
}

// AvatarFor returns the looked-up image reference, or "" when no lookup is
// configured or the lookup fails. Errors never propagate.
func (s *Service) AvatarFor(ctx context.Context, email string) string {
	if s == nil || s.lookup == nil {
		return ""
	}
	key := auth.NormalizeEmail(email)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.lookup.AvatarFor(ctx, key)
	})
	if err != nil {
		return ""
	}
	ref, _ := v.(string)
	return ref
}
