// Package cache implements the in-memory response cache that absorbs
// repeated dashboard reads against the marketplace API. Entries are
// keyed by full request URL and expire per route.
package cache

import (
	"strings"
	"time"
)

// Policy decides whether a request path may be cached and for how long.
// TTLs are matched by the longest configured route prefix; blacklisted
// prefixes are never cached regardless of the TTL table.
type Policy struct {
	defaultTTL time.Duration
	routeTTLs  map[string]time.Duration
	blacklist  []string
}

// NewPolicy builds a cache policy. Auth and callback routes must be on
// the blacklist: responses there carry per-seller redirects and tokens.
func NewPolicy(defaultTTL time.Duration, routeTTLs map[string]time.Duration, blacklist []string) *Policy {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Policy{
		defaultTTL: defaultTTL,
		routeTTLs:  routeTTLs,
		blacklist:  blacklist,
	}
}

// Cacheable reports whether responses for the given path may be stored.
func (p *Policy) Cacheable(path string) bool {
	for _, prefix := range p.blacklist {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// TTL returns the lifetime for a cached response at the given path.
// The longest matching prefix wins so that /api/v1/items/detail can
// override /api/v1/items.
func (p *Policy) TTL(path string) time.Duration {
	best := p.defaultTTL
	bestLen := -1
	for prefix, ttl := range p.routeTTLs {
		if strings.HasPrefix(path, prefix) && len(prefix) > bestLen {
			best = ttl
			bestLen = len(prefix)
		}
	}
	return best
}
