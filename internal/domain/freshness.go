package domain

import "time"

// FreshnessPolicy decides whether a cache entry is still servable.
// An entry is fresh while now - updatedAt <= TTL; at exactly the TTL
// boundary it is still a hit.
type FreshnessPolicy interface {
	Fresh(updatedAt, now time.Time) bool
	TTL() time.Duration
}

type freshnessPolicy struct {
	ttl time.Duration
}

// NewFreshnessPolicy creates a policy with the given TTL.
func NewFreshnessPolicy(ttl time.Duration) FreshnessPolicy {
	return &freshnessPolicy{ttl: ttl}
}

func (p *freshnessPolicy) Fresh(updatedAt, now time.Time) bool {
	return now.Sub(updatedAt) <= p.ttl
}

func (p *freshnessPolicy) TTL() time.Duration {
	return p.ttl
}
