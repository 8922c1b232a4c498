package domain

// ScopeSpec is the desired-state view of a scope.
type ScopeSpec struct {
	Name                           string      `json:"name" yaml:"name" toml:"name"`
	DisplayName                    string      `json:"display_name,omitempty" yaml:"display_name,omitempty" toml:"display_name,omitempty"`
	Description                    string      `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Enabled                        bool        `json:"enabled" yaml:"enabled" toml:"enabled"`
	Required                       bool        `json:"required" yaml:"required" toml:"required"`
	Emphasize                      bool        `json:"emphasize" yaml:"emphasize" toml:"emphasize"`
	Type                           ScopeType   `json:"type" yaml:"type" toml:"type"`
	IncludeAllClaimsForUser        bool        `json:"include_all_claims_for_user" yaml:"include_all_claims_for_user" toml:"include_all_claims_for_user"`
	ClaimsRule                     string      `json:"claims_rule,omitempty" yaml:"claims_rule,omitempty" toml:"claims_rule,omitempty"`
	ShowInDiscoveryDocument        bool        `json:"show_in_discovery_document" yaml:"show_in_discovery_document" toml:"show_in_discovery_document"`
	AllowUnrestrictedIntrospection bool        `json:"allow_unrestricted_introspection" yaml:"allow_unrestricted_introspection" toml:"allow_unrestricted_introspection"`
	Claims                         []ClaimSpec `json:"claims" yaml:"claims" toml:"claims"`
}

type ClaimSpec struct {
	Name                   string `json:"name" yaml:"name" toml:"name"`
	Description            string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	AlwaysIncludeInIDToken bool   `json:"always_include_in_id_token" yaml:"always_include_in_id_token" toml:"always_include_in_id_token"`
}

func NewScopeSpec() ScopeSpec {
	return ScopeSpec{
		Enabled:                 true,
		Type:                    ScopeTypeResource,
		ShowInDiscoveryDocument: true,
	}
}

func (s ScopeSpec) ToEntity() *Scope {
	out := &Scope{
		Enabled:                        s.Enabled,
		Name:                           s.Name,
		DisplayName:                    s.DisplayName,
		Description:                    s.Description,
		Required:                       s.Required,
		Emphasize:                      s.Emphasize,
		Type:                           s.Type,
		IncludeAllClaimsForUser:        s.IncludeAllClaimsForUser,
		ClaimsRule:                     s.ClaimsRule,
		ShowInDiscoveryDocument:        s.ShowInDiscoveryDocument,
		AllowUnrestrictedIntrospection: s.AllowUnrestrictedIntrospection,
	}
	for _, c := range s.Claims {
		out.Claims = append(out.Claims, &ScopeClaim{
			Name:                   c.Name,
			Description:            c.Description,
			AlwaysIncludeInIDToken: c.AlwaysIncludeInIDToken,
		})
	}
	return out
}

func FromEntity(s *Scope) ScopeSpec {
	out := ScopeSpec{
		Name:                           s.Name,
		DisplayName:                    s.DisplayName,
		Description:                    s.Description,
		Enabled:                        s.Enabled,
		Required:                       s.Required,
		Emphasize:                      s.Emphasize,
		Type:                           s.Type,
		IncludeAllClaimsForUser:        s.IncludeAllClaimsForUser,
		ClaimsRule:                     s.ClaimsRule,
		ShowInDiscoveryDocument:        s.ShowInDiscoveryDocument,
		AllowUnrestrictedIntrospection: s.AllowUnrestrictedIntrospection,
		Claims:                         make([]ClaimSpec, 0, len(s.Claims)),
	}
	for _, c := range s.Claims {
		out.Claims = append(out.Claims, ClaimSpec{
			Name:                   c.Name,
			Description:            c.Description,
			AlwaysIncludeInIDToken: c.AlwaysIncludeInIDToken,
		})
	}
	return out
}
