package domain

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
)

type Service interface {
	Get(ctx context.Context, clientID string) (*ClientSpec, error)
	List(ctx context.Context) ([]ClientSpec, error)
	Add(ctx context.Context, spec ClientSpec) (*ClientSpec, error)
	Set(ctx context.Context, spec ClientSpec) (*ClientSpec, error)
	Remove(ctx context.Context, clientID string) error
}

var (
	ErrInvalidClientID   = fmt.Errorf("invalid_client_id: %w", errdefs.ErrInvalidArgument)
	ErrInvalidClientName = fmt.Errorf("invalid_client_name: %w", errdefs.ErrInvalidArgument)
	ErrInvalidSecret     = fmt.Errorf("invalid_secret: %w", errdefs.ErrInvalidArgument)
	ErrInvalidEnum       = fmt.Errorf("invalid_enum: %w", errdefs.ErrInvalidArgument)
	ErrAlreadyExists     = fmt.Errorf("client_exists: %w", errdefs.ErrAlreadyExists)
)

// Validate checks the fields every stored client must carry.
func (s ClientSpec) Validate() error {
	if s.ClientID == "" {
		return ErrInvalidClientID
	}
	if s.ClientName == "" {
		return ErrInvalidClientName
	}
	for _, sec := range s.Secrets {
		if sec.Value == "" {
			return ErrInvalidSecret
		}
	}
	if s.Flow < FlowAuthorizationCode || s.Flow > FlowHybridWithProofKey {
		return fmt.Errorf("%w: flow %d", ErrInvalidEnum, int(s.Flow))
	}
	return nil
}
