package domain

import (
	"time"
)

// ClientSpec is the desired-state view of a client, as read from documents
// and command flags and as printed back to the operator.
type ClientSpec struct {
	ClientID                         string          `json:"client_id" yaml:"client_id" toml:"client_id"`
	ClientName                       string          `json:"client_name" yaml:"client_name" toml:"client_name"`
	Enabled                          bool            `json:"enabled" yaml:"enabled" toml:"enabled"`
	ClientURI                        string          `json:"client_uri,omitempty" yaml:"client_uri,omitempty" toml:"client_uri,omitempty"`
	LogoURI                          string          `json:"logo_uri,omitempty" yaml:"logo_uri,omitempty" toml:"logo_uri,omitempty"`
	RequireConsent                   bool            `json:"require_consent" yaml:"require_consent" toml:"require_consent"`
	AllowRememberConsent             bool            `json:"allow_remember_consent" yaml:"allow_remember_consent" toml:"allow_remember_consent"`
	Flow                             Flow            `json:"flow" yaml:"flow" toml:"flow"`
	AllowClientCredentialsOnly       bool            `json:"allow_client_credentials_only" yaml:"allow_client_credentials_only" toml:"allow_client_credentials_only"`
	AllowAccessToAllScopes           bool            `json:"allow_access_to_all_scopes" yaml:"allow_access_to_all_scopes" toml:"allow_access_to_all_scopes"`
	AllowAccessToAllCustomGrantTypes bool            `json:"allow_access_to_all_custom_grant_types" yaml:"allow_access_to_all_custom_grant_types" toml:"allow_access_to_all_custom_grant_types"`
	IdentityTokenLifetime            int             `json:"identity_token_lifetime" yaml:"identity_token_lifetime" toml:"identity_token_lifetime"`
	AccessTokenLifetime              int             `json:"access_token_lifetime" yaml:"access_token_lifetime" toml:"access_token_lifetime"`
	AuthorizationCodeLifetime        int             `json:"authorization_code_lifetime" yaml:"authorization_code_lifetime" toml:"authorization_code_lifetime"`
	AbsoluteRefreshTokenLifetime     int             `json:"absolute_refresh_token_lifetime" yaml:"absolute_refresh_token_lifetime" toml:"absolute_refresh_token_lifetime"`
	SlidingRefreshTokenLifetime      int             `json:"sliding_refresh_token_lifetime" yaml:"sliding_refresh_token_lifetime" toml:"sliding_refresh_token_lifetime"`
	RefreshTokenUsage                TokenUsage      `json:"refresh_token_usage" yaml:"refresh_token_usage" toml:"refresh_token_usage"`
	UpdateAccessTokenOnRefresh       bool            `json:"update_access_token_on_refresh" yaml:"update_access_token_on_refresh" toml:"update_access_token_on_refresh"`
	RefreshTokenExpiration           TokenExpiration `json:"refresh_token_expiration" yaml:"refresh_token_expiration" toml:"refresh_token_expiration"`
	AccessTokenType                  AccessTokenType `json:"access_token_type" yaml:"access_token_type" toml:"access_token_type"`
	EnableLocalLogin                 bool            `json:"enable_local_login" yaml:"enable_local_login" toml:"enable_local_login"`
	IncludeJwtID                     bool            `json:"include_jwt_id" yaml:"include_jwt_id" toml:"include_jwt_id"`
	AlwaysSendClientClaims           bool            `json:"always_send_client_claims" yaml:"always_send_client_claims" toml:"always_send_client_claims"`
	PrefixClientClaims               bool            `json:"prefix_client_claims" yaml:"prefix_client_claims" toml:"prefix_client_claims"`

	Secrets                      []SecretSpec `json:"secrets" yaml:"secrets" toml:"secrets"`
	RedirectURIs                 []string     `json:"redirect_uris" yaml:"redirect_uris" toml:"redirect_uris"`
	PostLogoutRedirectURIs       []string     `json:"post_logout_redirect_uris" yaml:"post_logout_redirect_uris" toml:"post_logout_redirect_uris"`
	CustomGrantTypeRestrictions  []string     `json:"custom_grant_type_restrictions" yaml:"custom_grant_type_restrictions" toml:"custom_grant_type_restrictions"`
	ScopeRestrictions            []string     `json:"scope_restrictions" yaml:"scope_restrictions" toml:"scope_restrictions"`
	IdentityProviderRestrictions []string     `json:"identity_provider_restrictions" yaml:"identity_provider_restrictions" toml:"identity_provider_restrictions"`
	Claims                       []ClaimSpec  `json:"claims" yaml:"claims" toml:"claims"`
}

type SecretSpec struct {
	Value       string     `json:"value" yaml:"value" toml:"value"`
	Type        string     `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Expiration  *time.Time `json:"expiration,omitempty" yaml:"expiration,omitempty" toml:"expiration,omitempty"`
}

type ClaimSpec struct {
	Type  string `json:"type" yaml:"type" toml:"type"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

const DefaultSecretType = "SharedSecret"

// NewClientSpec returns a spec carrying the defaults a new client starts with.
func NewClientSpec() ClientSpec {
	return ClientSpec{
		Enabled:                      true,
		RequireConsent:               true,
		AllowRememberConsent:         true,
		Flow:                         FlowImplicit,
		IdentityTokenLifetime:        300,
		AccessTokenLifetime:          3600,
		AuthorizationCodeLifetime:    300,
		AbsoluteRefreshTokenLifetime: 2592000,
		SlidingRefreshTokenLifetime:  1296000,
		RefreshTokenUsage:            TokenUsageOneTimeOnly,
		RefreshTokenExpiration:       TokenExpirationAbsolute,
		AccessTokenType:              AccessTokenJwt,
		EnableLocalLogin:             true,
		PrefixClientClaims:           true,
	}
}

// ToEntity builds an unsaved entity graph from the spec. No identifiers are
// assigned.
func (s ClientSpec) ToEntity() *Client {
	c := &Client{
		Enabled:                          s.Enabled,
		ClientID:                         s.ClientID,
		ClientName:                       s.ClientName,
		ClientURI:                        s.ClientURI,
		LogoURI:                          s.LogoURI,
		RequireConsent:                   s.RequireConsent,
		AllowRememberConsent:             s.AllowRememberConsent,
		Flow:                             s.Flow,
		AllowClientCredentialsOnly:       s.AllowClientCredentialsOnly,
		AllowAccessToAllScopes:           s.AllowAccessToAllScopes,
		AllowAccessToAllCustomGrantTypes: s.AllowAccessToAllCustomGrantTypes,
		IdentityTokenLifetime:            s.IdentityTokenLifetime,
		AccessTokenLifetime:              s.AccessTokenLifetime,
		AuthorizationCodeLifetime:        s.AuthorizationCodeLifetime,
		AbsoluteRefreshTokenLifetime:     s.AbsoluteRefreshTokenLifetime,
		SlidingRefreshTokenLifetime:      s.SlidingRefreshTokenLifetime,
		RefreshTokenUsage:                s.RefreshTokenUsage,
		UpdateAccessTokenOnRefresh:       s.UpdateAccessTokenOnRefresh,
		RefreshTokenExpiration:           s.RefreshTokenExpiration,
		AccessTokenType:                  s.AccessTokenType,
		EnableLocalLogin:                 s.EnableLocalLogin,
		IncludeJwtID:                     s.IncludeJwtID,
		AlwaysSendClientClaims:           s.AlwaysSendClientClaims,
		PrefixClientClaims:               s.PrefixClientClaims,
	}

	for _, sec := range s.Secrets {
		typ := sec.Type
		if typ == "" {
			typ = DefaultSecretType
		}
		c.Secrets = append(c.Secrets, &ClientSecret{
			Value:       sec.Value,
			Type:        typ,
			Description: sec.Description,
			Expiration:  sec.Expiration,
		})
	}
	for _, uri := range s.RedirectURIs {
		c.RedirectURIs = append(c.RedirectURIs, &ClientRedirectURI{URI: uri})
	}
	for _, uri := range s.PostLogoutRedirectURIs {
		c.PostLogoutRedirectURIs = append(c.PostLogoutRedirectURIs, &ClientPostLogoutRedirectURI{URI: uri})
	}
	for _, gt := range s.CustomGrantTypeRestrictions {
		c.GrantTypeRestrictions = append(c.GrantTypeRestrictions, &ClientGrantTypeRestriction{GrantType: gt})
	}
	for _, scope := range s.ScopeRestrictions {
		c.ScopeRestrictions = append(c.ScopeRestrictions, &ClientScopeRestriction{Scope: scope})
	}
	for _, provider := range s.IdentityProviderRestrictions {
		c.IdPRestrictions = append(c.IdPRestrictions, &ClientIdPRestriction{Provider: provider})
	}
	for _, claim := range s.Claims {
		c.Claims = append(c.Claims, &ClientClaim{Type: claim.Type, Value: claim.Value})
	}
	return c
}

// FromEntity derives the spec view of a persisted client.
func FromEntity(c *Client) ClientSpec {
	s := ClientSpec{
		ClientID:                         c.ClientID,
		ClientName:                       c.ClientName,
		Enabled:                          c.Enabled,
		ClientURI:                        c.ClientURI,
		LogoURI:                          c.LogoURI,
		RequireConsent:                   c.RequireConsent,
		AllowRememberConsent:             c.AllowRememberConsent,
		Flow:                             c.Flow,
		AllowClientCredentialsOnly:       c.AllowClientCredentialsOnly,
		AllowAccessToAllScopes:           c.AllowAccessToAllScopes,
		AllowAccessToAllCustomGrantTypes: c.AllowAccessToAllCustomGrantTypes,
		IdentityTokenLifetime:            c.IdentityTokenLifetime,
		AccessTokenLifetime:              c.AccessTokenLifetime,
		AuthorizationCodeLifetime:        c.AuthorizationCodeLifetime,
		AbsoluteRefreshTokenLifetime:     c.AbsoluteRefreshTokenLifetime,
		SlidingRefreshTokenLifetime:      c.SlidingRefreshTokenLifetime,
		RefreshTokenUsage:                c.RefreshTokenUsage,
		UpdateAccessTokenOnRefresh:       c.UpdateAccessTokenOnRefresh,
		RefreshTokenExpiration:           c.RefreshTokenExpiration,
		AccessTokenType:                  c.AccessTokenType,
		EnableLocalLogin:                 c.EnableLocalLogin,
		IncludeJwtID:                     c.IncludeJwtID,
		AlwaysSendClientClaims:           c.AlwaysSendClientClaims,
		PrefixClientClaims:               c.PrefixClientClaims,

		Secrets:                      make([]SecretSpec, 0, len(c.Secrets)),
		RedirectURIs:                 make([]string, 0, len(c.RedirectURIs)),
		PostLogoutRedirectURIs:       make([]string, 0, len(c.PostLogoutRedirectURIs)),
		CustomGrantTypeRestrictions:  make([]string, 0, len(c.GrantTypeRestrictions)),
		ScopeRestrictions:            make([]string, 0, len(c.ScopeRestrictions)),
		IdentityProviderRestrictions: make([]string, 0, len(c.IdPRestrictions)),
		Claims:                       make([]ClaimSpec, 0, len(c.Claims)),
	}

	for _, sec := range c.Secrets {
		s.Secrets = append(s.Secrets, SecretSpec{
			Value:       sec.Value,
			Type:        sec.Type,
			Description: sec.Description,
			Expiration:  sec.Expiration,
		})
	}
	for _, uri := range c.RedirectURIs {
		s.RedirectURIs = append(s.RedirectURIs, uri.URI)
	}
	for _, uri := range c.PostLogoutRedirectURIs {
		s.PostLogoutRedirectURIs = append(s.PostLogoutRedirectURIs, uri.URI)
	}
	for _, gt := range c.GrantTypeRestrictions {
		s.CustomGrantTypeRestrictions = append(s.CustomGrantTypeRestrictions, gt.GrantType)
	}
	for _, scope := range c.ScopeRestrictions {
		s.ScopeRestrictions = append(s.ScopeRestrictions, scope.Scope)
	}
	for _, p := range c.IdPRestrictions {
		s.IdentityProviderRestrictions = append(s.IdentityProviderRestrictions, p.Provider)
	}
	for _, claim := range c.Claims {
		s.Claims = append(s.Claims, ClaimSpec{Type: claim.Type, Value: claim.Value})
	}
	return s
}
