package domain

import (
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlow(t *testing.T) {
	f, err := ParseFlow(" clientcredentials ")
	require.NoError(t, err)
	assert.Equal(t, FlowClientCredentials, f)
	assert.Equal(t, "ClientCredentials", f.String())

	_, err = ParseFlow("teleport")
	assert.ErrorIs(t, err, ErrInvalidEnum)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestEnumText(t *testing.T) {
	var typ AccessTokenType
	require.NoError(t, typ.UnmarshalText([]byte("reference")))
	assert.Equal(t, AccessTokenReference, typ)

	b, err := TokenUsageReUse.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ReUse", string(b))

	assert.Equal(t, "42", Flow(42).String())
}

func TestToEntity_DefaultsSecretType(t *testing.T) {
	spec := NewClientSpec()
	spec.ClientID = "c1"
	spec.ClientName = "Portal"
	spec.Secrets = []SecretSpec{{Value: "a"}, {Value: "b", Type: "X509Thumbprint", Description: "cert"}}
	spec.Claims = []ClaimSpec{{Type: "role", Value: "admin"}}

	c := spec.ToEntity()
	assert.Zero(t, c.ID)
	require.Len(t, c.Secrets, 2)
	assert.Equal(t, DefaultSecretType, c.Secrets[0].Type)
	assert.Equal(t, "X509Thumbprint", c.Secrets[1].Type)
	assert.Equal(t, "cert", c.Secrets[1].Description)

	back := FromEntity(c)
	assert.Equal(t, spec.ClientID, back.ClientID)
	assert.Equal(t, spec.Claims, back.Claims)
	assert.Equal(t, spec.AccessTokenLifetime, back.AccessTokenLifetime)
}

func TestSetValues_KeepsIdentity(t *testing.T) {
	live := &Client{ID: 7, ClientID: "c1", ClientName: "old", RedirectURIs: []*ClientRedirectURI{{URI: "https://a"}}}
	live.SetValues(&Client{ID: 99, ClientID: "c1", ClientName: "new", Flow: FlowHybrid})

	assert.EqualValues(t, 7, live.ID)
	assert.Equal(t, "new", live.ClientName)
	assert.Equal(t, FlowHybrid, live.Flow)
	assert.Len(t, live.RedirectURIs, 1)
}

func TestValidate(t *testing.T) {
	spec := NewClientSpec()
	assert.ErrorIs(t, spec.Validate(), ErrInvalidClientID)

	spec.ClientID = "c1"
	assert.ErrorIs(t, spec.Validate(), ErrInvalidClientName)

	spec.ClientName = "Portal"
	spec.Secrets = []SecretSpec{{}}
	assert.ErrorIs(t, spec.Validate(), ErrInvalidSecret)

	spec.Secrets = nil
	spec.Flow = Flow(99)
	assert.ErrorIs(t, spec.Validate(), ErrInvalidEnum)

	spec.Flow = FlowHybrid
	assert.NoError(t, spec.Validate())
}
