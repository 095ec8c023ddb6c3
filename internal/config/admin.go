package config

import "strings"

// DefaultAdminPathPrefixes mark the administrative UI surface and the
// administrative API.
var DefaultAdminPathPrefixes = []string{"/admin", "/api/admin"}

// AllowList is the read-only set of lower-cased emails that may reach admin
// routes. It is built once at start-up and never mutated afterwards.
type AllowList map[string]struct{}

// ParseAllowList builds an AllowList from a comma separated list of emails.
// Entries are trimmed and lower-cased; duplicates collapse.
func ParseAllowList(raw string) AllowList {
	out := make(AllowList)
	for _, e := range splitList(raw) {
		out[strings.ToLower(e)] = struct{}{}
	}
	return out
}

// Contains reports whether email is allowed, ignoring case and surrounding space.
func (a AllowList) Contains(email string) bool {
	if len(a) == 0 {
		return false
	}
	_, ok := a[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Emails returns the allow-listed addresses in no particular order.
func (a AllowList) Emails() []string {
	out := make([]string, 0, len(a))
	for e := range a {
		out = append(out, e)
	}
	return out
}

// normalizePrefixes ensures every prefix starts with "/" and has no trailing slash.
func normalizePrefixes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if len(p) > 1 {
			p = strings.TrimRight(p, "/")
		}
		out = append(out, p)
	}
	return out
}
