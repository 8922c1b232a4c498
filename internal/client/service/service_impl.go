package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/idsrvctl/internal/client/domain"
	"github.com/railzwaylabs/idsrvctl/internal/observability"
	"github.com/railzwaylabs/idsrvctl/internal/reconcile"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const kind = "client"

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Metrics *observability.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	genID      *snowflake.Node
	metrics    *observability.Metrics
	reconciler *reconcile.Reconciler[*domain.Client]
}

func New(p Params) domain.Service {
	s := &Service{
		db:      p.DB,
		log:     p.Log.Named("client.service"),
		repo:    p.Repo,
		genID:   p.GenID,
		metrics: p.Metrics,
	}
	s.reconciler = &reconcile.Reconciler[*domain.Client]{
		Kind: kind,
		Find: s.repo.FindByClientID,
		Sync: s.sync,
	}
	return s
}

func (s *Service) Get(ctx context.Context, clientID string) (*domain.ClientSpec, error) {
	item, err := s.reconciler.Load(ctx, s.db, strings.TrimSpace(clientID))
	if err != nil {
		return nil, err
	}
	resp := domain.FromEntity(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ClientSpec, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.ClientSpec, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.FromEntity(item))
	}
	return resp, nil
}

func (s *Service) Add(ctx context.Context, spec domain.ClientSpec) (*domain.ClientSpec, error) {
	spec.ClientID = strings.TrimSpace(spec.ClientID)
	spec.ClientName = strings.TrimSpace(spec.ClientName)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	item := spec.ToEntity()
	item.Compact()
	item.ID = s.genID.Generate()
	s.assignChildIDs(item)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.repo.Exists(ctx, tx, spec.ClientID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyExists
		}
		return s.repo.Create(ctx, tx, item)
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, err
	}
	if err != nil {
		return nil, &reconcile.Error{Kind: kind, Key: spec.ClientID, Err: reconcile.ErrStore, Cause: err}
	}

	s.log.Info("client added",
		zap.String("client_id", item.ClientID),
		zap.Int64("id", item.ID.Int64()),
	)
	resp := domain.FromEntity(item)
	return &resp, nil
}

// Set reconciles the stored client named by spec.ClientID with spec.
func (s *Service) Set(ctx context.Context, spec domain.ClientSpec) (*domain.ClientSpec, error) {
	spec.ClientID = strings.TrimSpace(spec.ClientID)
	spec.ClientName = strings.TrimSpace(spec.ClientName)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	item, cs, err := s.reconciler.Run(ctx, s.db, spec.ClientID, spec.ToEntity())
	s.metrics.ObserveReconcile(kind, cs, err)
	if err != nil {
		s.log.Warn("client reconcile failed", zap.String("client_id", spec.ClientID), zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{
		zap.String("client_id", item.ClientID),
		zap.Int64("id", item.ID.Int64()),
		zap.Duration("took", time.Since(start)),
	}
	for name, c := range cs.Summary() {
		fields = append(fields, zap.Dict(name, zap.Int("added", c.Added), zap.Int("removed", c.Removed)))
	}
	s.log.Info("client reconciled", fields...)

	resp := domain.FromEntity(item)
	return &resp, nil
}

func (s *Service) Remove(ctx context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	item, err := s.reconciler.Load(ctx, s.db, clientID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, item)
	})
	if err != nil {
		return &reconcile.Error{Kind: kind, Key: clientID, Err: reconcile.ErrStore, Cause: err}
	}

	s.log.Info("client removed", zap.String("client_id", clientID), zap.Int64("id", item.ID.Int64()))
	return nil
}

func (s *Service) sync(cs *reconcile.ChangeSet, live, desired *domain.Client) error {
	live.SetValues(desired)
	owner := live.ID

	if _, err := reconcile.Sync(cs, domain.RedirectURIsCollection, &live.RedirectURIs, desired.RedirectURIs,
		func(src *domain.ClientRedirectURI) *domain.ClientRedirectURI {
			return &domain.ClientRedirectURI{ID: s.genID.Generate(), ClientRowID: owner, URI: src.URI}
		}); err != nil {
		return err
	}
	if _, err := reconcile.Sync(cs, domain.PostLogoutRedirectURIsCollection, &live.PostLogoutRedirectURIs, desired.PostLogoutRedirectURIs,
		func(src *domain.ClientPostLogoutRedirectURI) *domain.ClientPostLogoutRedirectURI {
			return &domain.ClientPostLogoutRedirectURI{ID: s.genID.Generate(), ClientRowID: owner, URI: src.URI}
		}); err != nil {
		return err
	}
	if _, err := reconcile.Sync(cs, domain.GrantTypeRestrictionsCollection, &live.GrantTypeRestrictions, desired.GrantTypeRestrictions,
		func(src *domain.ClientGrantTypeRestriction) *domain.ClientGrantTypeRestriction {
			return &domain.ClientGrantTypeRestriction{ID: s.genID.Generate(), ClientRowID: owner, GrantType: src.GrantType}
		}); err != nil {
		return err
	}
	if _, err := reconcile.Sync(cs, domain.ScopeRestrictionsCollection, &live.ScopeRestrictions, desired.ScopeRestrictions,
		func(src *domain.ClientScopeRestriction) *domain.ClientScopeRestriction {
			return &domain.ClientScopeRestriction{ID: s.genID.Generate(), ClientRowID: owner, Scope: src.Scope}
		}); err != nil {
		return err
	}
	if _, err := reconcile.Sync(cs, domain.IdPRestrictionsCollection, &live.IdPRestrictions, desired.IdPRestrictions,
		func(src *domain.ClientIdPRestriction) *domain.ClientIdPRestriction {
			return &domain.ClientIdPRestriction{ID: s.genID.Generate(), ClientRowID: owner, Provider: src.Provider}
		}); err != nil {
		return err
	}
	if _, err := reconcile.Sync(cs, domain.SecretsCollection, &live.Secrets, desired.Secrets,
		func(src *domain.ClientSecret) *domain.ClientSecret {
			return &domain.ClientSecret{
				ID:          s.genID.Generate(),
				ClientRowID: owner,
				Value:       src.Value,
				Type:        src.Type,
				Description: src.Description,
				Expiration:  src.Expiration,
			}
		}); err != nil {
		return err
	}
	if _, err := reconcile.Sync(cs, domain.ClaimsCollection, &live.Claims, desired.Claims,
		func(src *domain.ClientClaim) *domain.ClientClaim {
			return &domain.ClientClaim{ID: s.genID.Generate(), ClientRowID: owner, Type: src.Type, Value: src.Value}
		}); err != nil {
		return err
	}
	return nil
}

func (s *Service) assignChildIDs(c *domain.Client) {
	for _, v := range c.Secrets {
		v.ID, v.ClientRowID = s.genID.Generate(), c.ID
	}
	for _, v := range c.RedirectURIs {
		v.ID, v.ClientRowID = s.genID.Generate(), c.ID
	}
	for _, v := range c.PostLogoutRedirectURIs {
		v.ID, v.ClientRowID = s.genID.Generate(), c.ID
	}
	for _, v := range c.GrantTypeRestrictions {
		v.ID, v.ClientRowID = s.genID.Generate(), c.ID
	}
	for _, v := range c.ScopeRestrictions {
		v.ID, v.ClientRowID = s.genID.Generate(), c.ID
	}
	for _, v := range c.IdPRestrictions {
		v.ID, v.ClientRowID = s.genID.Generate(), c.ID
	}
	for _, v := range c.Claims {
		v.ID, v.ClientRowID = s.genID.Generate(), c.ID
	}
}
