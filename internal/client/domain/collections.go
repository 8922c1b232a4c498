package domain

import "github.com/railzwaylabs/idsrvctl/internal/reconcile"

// Dependent collections of a client and the keys they are compared by.
var (
	SecretsCollection = reconcile.Collection[*ClientSecret]{
		Name:   "secrets",
		Member: func(s *ClientSecret) string { return s.Value },
	}
	RedirectURIsCollection = reconcile.Collection[*ClientRedirectURI]{
		Name:   "redirect_uris",
		Member: func(u *ClientRedirectURI) string { return u.URI },
	}
	PostLogoutRedirectURIsCollection = reconcile.Collection[*ClientPostLogoutRedirectURI]{
		Name:   "post_logout_redirect_uris",
		Member: func(u *ClientPostLogoutRedirectURI) string { return u.URI },
	}
	GrantTypeRestrictionsCollection = reconcile.Collection[*ClientGrantTypeRestriction]{
		Name:   "grant_type_restrictions",
		Member: func(g *ClientGrantTypeRestriction) string { return g.GrantType },
	}
	ScopeRestrictionsCollection = reconcile.Collection[*ClientScopeRestriction]{
		Name:   "scope_restrictions",
		Member: func(s *ClientScopeRestriction) string { return s.Scope },
	}
	IdPRestrictionsCollection = reconcile.Collection[*ClientIdPRestriction]{
		Name:   "idp_restrictions",
		Member: func(p *ClientIdPRestriction) string { return p.Provider },
	}
	// Presence is decided by claim type alone, but a removal must find the
	// exact type and value. A changed value for an existing type is therefore
	// not reconciled.
	ClaimsCollection = reconcile.Collection[*ClientClaim]{
		Name:   "claims",
		Member: func(c *ClientClaim) string { return c.Type },
		Match:  func(c *ClientClaim) string { return c.Type + "\x00" + c.Value },
	}
)

// Compact removes repeated children from every collection of c.
func (c *Client) Compact() {
	c.Secrets = reconcile.Unique(SecretsCollection, c.Secrets)
	c.RedirectURIs = reconcile.Unique(RedirectURIsCollection, c.RedirectURIs)
	c.PostLogoutRedirectURIs = reconcile.Unique(PostLogoutRedirectURIsCollection, c.PostLogoutRedirectURIs)
	c.GrantTypeRestrictions = reconcile.Unique(GrantTypeRestrictionsCollection, c.GrantTypeRestrictions)
	c.ScopeRestrictions = reconcile.Unique(ScopeRestrictionsCollection, c.ScopeRestrictions)
	c.IdPRestrictions = reconcile.Unique(IdPRestrictionsCollection, c.IdPRestrictions)
	c.Claims = reconcile.Unique(ClaimsCollection, c.Claims)
}
