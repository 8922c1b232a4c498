package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Client is the persisted client aggregate root.
type Client struct {
	ID                               snowflake.ID    `gorm:"primaryKey"`
	Enabled                          bool            `gorm:"not null"`
	ClientID                         string          `gorm:"column:client_id;size:200;not null;index"`
	ClientName                       string          `gorm:"size:200;not null"`
	ClientURI                        string          `gorm:"column:client_uri;size:2000"`
	LogoURI                          string          `gorm:"column:logo_uri"`
	RequireConsent                   bool            `gorm:"not null"`
	AllowRememberConsent             bool            `gorm:"not null"`
	Flow                             Flow            `gorm:"not null"`
	AllowClientCredentialsOnly       bool            `gorm:"not null"`
	AllowAccessToAllScopes           bool            `gorm:"not null"`
	AllowAccessToAllCustomGrantTypes bool            `gorm:"not null"`
	IdentityTokenLifetime            int             `gorm:"not null"`
	AccessTokenLifetime              int             `gorm:"not null"`
	AuthorizationCodeLifetime        int             `gorm:"not null"`
	AbsoluteRefreshTokenLifetime     int             `gorm:"not null"`
	SlidingRefreshTokenLifetime      int             `gorm:"not null"`
	RefreshTokenUsage                TokenUsage      `gorm:"not null"`
	UpdateAccessTokenOnRefresh       bool            `gorm:"not null"`
	RefreshTokenExpiration           TokenExpiration `gorm:"not null"`
	AccessTokenType                  AccessTokenType `gorm:"not null"`
	EnableLocalLogin                 bool            `gorm:"not null"`
	IncludeJwtID                     bool            `gorm:"column:include_jwt_id;not null"`
	AlwaysSendClientClaims           bool            `gorm:"not null"`
	PrefixClientClaims               bool            `gorm:"not null"`
	CreatedAt                        time.Time
	UpdatedAt                        time.Time

	Secrets                []*ClientSecret                `gorm:"foreignKey:ClientRowID"`
	RedirectURIs           []*ClientRedirectURI           `gorm:"foreignKey:ClientRowID"`
	PostLogoutRedirectURIs []*ClientPostLogoutRedirectURI `gorm:"foreignKey:ClientRowID"`
	GrantTypeRestrictions  []*ClientGrantTypeRestriction  `gorm:"foreignKey:ClientRowID"`
	ScopeRestrictions      []*ClientScopeRestriction      `gorm:"foreignKey:ClientRowID"`
	IdPRestrictions        []*ClientIdPRestriction        `gorm:"foreignKey:ClientRowID"`
	Claims                 []*ClientClaim                 `gorm:"foreignKey:ClientRowID"`
}

func (Client) TableName() string {
	return "clients"
}

// SetValues overwrites every scalar column from next. The storage identity
// and creation time are kept; collections are left alone.
func (c *Client) SetValues(next *Client) {
	c.Enabled = next.Enabled
	c.ClientID = next.ClientID
	c.ClientName = next.ClientName
	c.ClientURI = next.ClientURI
	c.LogoURI = next.LogoURI
	c.RequireConsent = next.RequireConsent
	c.AllowRememberConsent = next.AllowRememberConsent
	c.Flow = next.Flow
	c.AllowClientCredentialsOnly = next.AllowClientCredentialsOnly
	c.AllowAccessToAllScopes = next.AllowAccessToAllScopes
	c.AllowAccessToAllCustomGrantTypes = next.AllowAccessToAllCustomGrantTypes
	c.IdentityTokenLifetime = next.IdentityTokenLifetime
	c.AccessTokenLifetime = next.AccessTokenLifetime
	c.AuthorizationCodeLifetime = next.AuthorizationCodeLifetime
	c.AbsoluteRefreshTokenLifetime = next.AbsoluteRefreshTokenLifetime
	c.SlidingRefreshTokenLifetime = next.SlidingRefreshTokenLifetime
	c.RefreshTokenUsage = next.RefreshTokenUsage
	c.UpdateAccessTokenOnRefresh = next.UpdateAccessTokenOnRefresh
	c.RefreshTokenExpiration = next.RefreshTokenExpiration
	c.AccessTokenType = next.AccessTokenType
	c.EnableLocalLogin = next.EnableLocalLogin
	c.IncludeJwtID = next.IncludeJwtID
	c.AlwaysSendClientClaims = next.AlwaysSendClientClaims
	c.PrefixClientClaims = next.PrefixClientClaims
}

type ClientSecret struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ClientRowID snowflake.ID `gorm:"column:client_row_id;not null;index"`
	Value       string       `gorm:"size:250;not null"`
	Type        string       `gorm:"size:250"`
	Description string       `gorm:"size:2000"`
	Expiration  *time.Time
}

func (ClientSecret) TableName() string { return "client_secrets" }

type ClientRedirectURI struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ClientRowID snowflake.ID `gorm:"column:client_row_id;not null;index"`
	URI         string       `gorm:"column:uri;size:2000;not null"`
}

func (ClientRedirectURI) TableName() string { return "client_redirect_uris" }

type ClientPostLogoutRedirectURI struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ClientRowID snowflake.ID `gorm:"column:client_row_id;not null;index"`
	URI         string       `gorm:"column:uri;size:2000;not null"`
}

func (ClientPostLogoutRedirectURI) TableName() string { return "client_post_logout_redirect_uris" }

type ClientGrantTypeRestriction struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ClientRowID snowflake.ID `gorm:"column:client_row_id;not null;index"`
	GrantType   string       `gorm:"size:250;not null"`
}

func (ClientGrantTypeRestriction) TableName() string { return "client_grant_type_restrictions" }

type ClientScopeRestriction struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ClientRowID snowflake.ID `gorm:"column:client_row_id;not null;index"`
	Scope       string       `gorm:"size:200;not null"`
}

func (ClientScopeRestriction) TableName() string { return "client_scope_restrictions" }

type ClientIdPRestriction struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ClientRowID snowflake.ID `gorm:"column:client_row_id;not null;index"`
	Provider    string       `gorm:"size:200;not null"`
}

func (ClientIdPRestriction) TableName() string { return "client_idp_restrictions" }

type ClientClaim struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ClientRowID snowflake.ID `gorm:"column:client_row_id;not null;index"`
	Type        string       `gorm:"size:250;not null"`
	Value       string       `gorm:"size:250;not null"`
}

func (ClientClaim) TableName() string { return "client_claims" }
