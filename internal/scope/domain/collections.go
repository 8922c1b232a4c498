package domain

import "github.com/railzwaylabs/idsrvctl/internal/reconcile"

var ClaimsCollection = reconcile.Collection[*ScopeClaim]{
	Name:   "claims",
	Member: func(c *ScopeClaim) string { return c.Name },
}

// Compact removes repeated claims from s.
func (s *Scope) Compact() {
	s.Claims = reconcile.Unique(ClaimsCollection, s.Claims)
}
