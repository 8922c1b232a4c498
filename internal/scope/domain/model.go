package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Scope is the persisted scope aggregate root.
type Scope struct {
	ID                             snowflake.ID `gorm:"primaryKey"`
	Enabled                        bool         `gorm:"not null"`
	Name                           string       `gorm:"size:200;not null;index"`
	DisplayName                    string       `gorm:"size:200"`
	Description                    string       `gorm:"size:1000"`
	Required                       bool         `gorm:"not null"`
	Emphasize                      bool         `gorm:"not null"`
	Type                           ScopeType    `gorm:"not null"`
	IncludeAllClaimsForUser        bool         `gorm:"not null"`
	ClaimsRule                     string       `gorm:"size:200"`
	ShowInDiscoveryDocument        bool         `gorm:"not null"`
	AllowUnrestrictedIntrospection bool         `gorm:"not null"`
	CreatedAt                      time.Time
	UpdatedAt                      time.Time

	Claims []*ScopeClaim `gorm:"foreignKey:ScopeRowID"`
}

func (Scope) TableName() string {
	return "scopes"
}

// SetValues overwrites every scalar column from next, keeping the storage
// identity and creation time.
func (s *Scope) SetValues(next *Scope) {
	s.Enabled = next.Enabled
	s.Name = next.Name
	s.DisplayName = next.DisplayName
	s.Description = next.Description
	s.Required = next.Required
	s.Emphasize = next.Emphasize
	s.Type = next.Type
	s.IncludeAllClaimsForUser = next.IncludeAllClaimsForUser
	s.ClaimsRule = next.ClaimsRule
	s.ShowInDiscoveryDocument = next.ShowInDiscoveryDocument
	s.AllowUnrestrictedIntrospection = next.AllowUnrestrictedIntrospection
}

type ScopeClaim struct {
	ID                     snowflake.ID `gorm:"primaryKey"`
	ScopeRowID             snowflake.ID `gorm:"column:scope_row_id;not null;index"`
	Name                   string       `gorm:"size:200;not null"`
	Description            string       `gorm:"size:1000"`
	AlwaysIncludeInIDToken bool         `gorm:"column:always_include_in_id_token;not null"`
}

func (ScopeClaim) TableName() string { return "scope_claims" }

type ScopeType int

const (
	ScopeTypeIdentity ScopeType = iota
	ScopeTypeResource
)

func ParseScopeType(s string) (ScopeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "identity":
		return ScopeTypeIdentity, nil
	case "resource":
		return ScopeTypeResource, nil
	}
	return 0, fmt.Errorf("%w: unknown scope type %q", ErrInvalidScopeType, s)
}

func (t ScopeType) String() string {
	switch t {
	case ScopeTypeIdentity:
		return "Identity"
	case ScopeTypeResource:
		return "Resource"
	}
	return fmt.Sprintf("%d", int(t))
}

func (t ScopeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ScopeType) UnmarshalText(b []byte) error {
	v, err := ParseScopeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
