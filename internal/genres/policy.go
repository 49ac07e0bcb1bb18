package genres

import "strings"

// Parse splits a comma-joined genre field into trimmed, non-empty tokens.
// Order is the original left-to-right order and duplicates are kept; callers
// that need a set dedupe themselves.
func Parse(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Blacklist is a case-insensitive set of excluded genre tags.
type Blacklist struct {
	lower map[string]struct{}
}

// DefaultBlacklist mirrors the tags the catalog never recommends or trains on.
func DefaultBlacklist() Blacklist {
	return NewBlacklist("Avant Garde", "Boys Love", "Hentai")
}

func NewBlacklist(tags ...string) Blacklist {
	lower := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		lower[t] = struct{}{}
	}
	return Blacklist{lower: lower}
}

func (b Blacklist) contains(tag string) bool {
	_, ok := b.lower[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// Matches reports whether any token of a comma-joined genre field is
// blacklisted.
func (b Blacklist) Matches(raw string) bool {
	for _, g := range Parse(raw) {
		if b.contains(g) {
			return true
		}
	}
	return false
}

// Filter returns the tokens whose lower-cased form is not blacklisted,
// preserving order.
func (b Blacklist) Filter(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, g := range tags {
		if !b.contains(g) {
			out = append(out, g)
		}
	}
	return out
}
