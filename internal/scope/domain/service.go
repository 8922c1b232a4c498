package domain

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
)

type Service interface {
	Get(ctx context.Context, name string) (*ScopeSpec, error)
	List(ctx context.Context) ([]ScopeSpec, error)
	Add(ctx context.Context, spec ScopeSpec) (*ScopeSpec, error)
	Set(ctx context.Context, spec ScopeSpec) (*ScopeSpec, error)
	Remove(ctx context.Context, name string) error
}

var (
	ErrInvalidName      = fmt.Errorf("invalid_name: %w", errdefs.ErrInvalidArgument)
	ErrInvalidClaim     = fmt.Errorf("invalid_claim: %w", errdefs.ErrInvalidArgument)
	ErrInvalidScopeType = fmt.Errorf("invalid_scope_type: %w", errdefs.ErrInvalidArgument)
	ErrAlreadyExists    = fmt.Errorf("scope_exists: %w", errdefs.ErrAlreadyExists)
)

func (s ScopeSpec) Validate() error {
	if s.Name == "" {
		return ErrInvalidName
	}
	if s.Type != ScopeTypeIdentity && s.Type != ScopeTypeResource {
		return fmt.Errorf("%w: %d", ErrInvalidScopeType, int(s.Type))
	}
	for _, c := range s.Claims {
		if c.Name == "" {
			return ErrInvalidClaim
		}
	}
	return nil
}
