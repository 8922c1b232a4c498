package domain

import (
	"fmt"
	"strings"
)

type Flow int

const (
	FlowAuthorizationCode Flow = iota
	FlowImplicit
	FlowHybrid
	FlowClientCredentials
	FlowResourceOwner
	FlowCustom
	FlowAuthorizationCodeWithProofKey
	FlowHybridWithProofKey
)

var flowNames = []string{
	"AuthorizationCode",
	"Implicit",
	"Hybrid",
	"ClientCredentials",
	"ResourceOwner",
	"Custom",
	"AuthorizationCodeWithProofKey",
	"HybridWithProofKey",
}

func ParseFlow(s string) (Flow, error) {
	v, err := parseName(flowNames, "flow", s)
	return Flow(v), err
}

func (f Flow) String() string                { return nameOf(flowNames, int(f)) }
func (f Flow) MarshalText() ([]byte, error)  { return []byte(f.String()), nil }
func (f *Flow) UnmarshalText(b []byte) error { return unmarshalName(flowNames, "flow", b, (*int)(f)) }

type AccessTokenType int

const (
	AccessTokenJwt AccessTokenType = iota
	AccessTokenReference
)

var accessTokenTypeNames = []string{"Jwt", "Reference"}

func ParseAccessTokenType(s string) (AccessTokenType, error) {
	v, err := parseName(accessTokenTypeNames, "access token type", s)
	return AccessTokenType(v), err
}

func (t AccessTokenType) String() string               { return nameOf(accessTokenTypeNames, int(t)) }
func (t AccessTokenType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *AccessTokenType) UnmarshalText(b []byte) error {
	return unmarshalName(accessTokenTypeNames, "access token type", b, (*int)(t))
}

type TokenUsage int

const (
	TokenUsageReUse TokenUsage = iota
	TokenUsageOneTimeOnly
)

var tokenUsageNames = []string{"ReUse", "OneTimeOnly"}

func (u TokenUsage) String() string               { return nameOf(tokenUsageNames, int(u)) }
func (u TokenUsage) MarshalText() ([]byte, error) { return []byte(u.String()), nil }
func (u *TokenUsage) UnmarshalText(b []byte) error {
	return unmarshalName(tokenUsageNames, "token usage", b, (*int)(u))
}

type TokenExpiration int

const (
	TokenExpirationSliding TokenExpiration = iota
	TokenExpirationAbsolute
)

var tokenExpirationNames = []string{"Sliding", "Absolute"}

func (e TokenExpiration) String() string               { return nameOf(tokenExpirationNames, int(e)) }
func (e TokenExpiration) MarshalText() ([]byte, error) { return []byte(e.String()), nil }
func (e *TokenExpiration) UnmarshalText(b []byte) error {
	return unmarshalName(tokenExpirationNames, "token expiration", b, (*int)(e))
}

func nameOf(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%d", v)
	}
	return names[v]
}

func parseName(names []string, kind, s string) (int, error) {
	s = strings.TrimSpace(s)
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidEnum, kind, s)
}

func unmarshalName(names []string, kind string, b []byte, dst *int) error {
	v, err := parseName(names, kind, string(b))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
