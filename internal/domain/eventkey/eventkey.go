// Package eventkey produces canonical event identifiers. The same physical
// event must always map to the same key regardless of input formatting, and
// the GP and Sprint sessions of one meeting must never collide.
package eventkey

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Session distinguishes the two scored sessions of a race meeting.
type Session int

const (
	GrandPrix Session = iota
	Sprint
)

// Suffix returns the canonical id suffix for the session.
func (s Session) Suffix() string {
	if s == Sprint {
		return "sprint"
	}
	return "gp"
}

func (s Session) String() string {
	if s == Sprint {
		return "sprint"
	}
	return "grand prix"
}

// ParseSession maps user-facing session names onto a Session.
func ParseSession(raw string) (Session, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "gp", "grand prix", "grand_prix", "race":
		return GrandPrix, nil
	case "sprint":
		return Sprint, nil
	default:
		return GrandPrix, fmt.Errorf("%w: %q", ErrUnknownSession, raw)
	}
}

// Normalize slugs a human-entered event name and appends the session suffix,
// e.g. ("Monaco", GrandPrix) -> "monaco-gp", ("São Paulo", Sprint) ->
// "sao-paulo-sprint".
func Normalize(name string, session Session) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptyName, name)
	}
	return base + "-" + session.Suffix(), nil
}
