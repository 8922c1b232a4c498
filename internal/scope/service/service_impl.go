package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/idsrvctl/internal/observability"
	"github.com/railzwaylabs/idsrvctl/internal/reconcile"
	"github.com/railzwaylabs/idsrvctl/internal/scope/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const kind = "scope"

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
	reconciler *reconcile.Reconciler[*domain.Scope]
}

func New(p Params) domain.Service {
	s := &Service{
		db:      p.DB,
		log:     p.Log.Named("scope.service"),
		repo:    p.Repo,
		genID:   p.GenID,
		metrics: p.Metrics,
	}
	s.reconciler = &reconcile.Reconciler[*domain.Scope]{
		Kind: kind,
		Find: s.repo.FindByName,
		Sync: s.sync,
	}
	return s
}

func (s *Service) Get(ctx context.Context, name string) (*domain.ScopeSpec, error) {
	item, err := s.reconciler.Load(ctx, s.db, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	resp := domain.FromEntity(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ScopeSpec, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.ScopeSpec, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.FromEntity(item))
	}
	return resp, nil
}

func (s *Service) Add(ctx context.Context, spec domain.ScopeSpec) (*domain.ScopeSpec, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	item := spec.ToEntity()
	item.Compact()
	item.ID = s.genID.Generate()
	for _, c := range item.Claims {
		c.ID, c.ScopeRowID = s.genID.Generate(), item.ID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.repo.Exists(ctx, tx, spec.Name)
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
		return nil, &reconcile.Error{Kind: kind, Key: spec.Name, Err: reconcile.ErrStore, Cause: err}
	}

	s.log.Info("scope added", zap.String("name", item.Name), zap.Int64("id", item.ID.Int64()))
	resp := domain.FromEntity(item)
	return &resp, nil
}

func (s *Service) Set(ctx context.Context, spec domain.ScopeSpec) (*domain.ScopeSpec, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	item, cs, err := s.reconciler.Run(ctx, s.db, spec.Name, spec.ToEntity())
	s.metrics.ObserveReconcile(kind, cs, err)
	if err != nil {
		s.log.Warn("scope reconcile failed", zap.String("name", spec.Name), zap.Error(err))
		return nil, err
	}

	counts := cs.Summary()[domain.ClaimsCollection.Name]
	s.log.Info("scope reconciled",
		zap.String("name", item.Name),
		zap.Int64("id", item.ID.Int64()),
		zap.Int("claims_added", counts.Added),
		zap.Int("claims_removed", counts.Removed),
	)

	resp := domain.FromEntity(item)
	return &resp, nil
}

func (s *Service) Remove(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	item, err := s.reconciler.Load(ctx, s.db, name)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, item)
	})
	if err != nil {
		return &reconcile.Error{Kind: kind, Key: name, Err: reconcile.ErrStore, Cause: err}
	}

	s.log.Info("scope removed", zap.String("name", name), zap.Int64("id", item.ID.Int64()))
	return nil
}

func (s *Service) sync(cs *reconcile.ChangeSet, live, desired *domain.Scope) error {
	live.SetValues(desired)
	_, err := reconcile.Sync(cs, domain.ClaimsCollection, &live.Claims, desired.Claims,
		func(src *domain.ScopeClaim) *domain.ScopeClaim {
			return &domain.ScopeClaim{
				ID:                     s.genID.Generate(),
				ScopeRowID:             live.ID,
				Name:                   src.Name,
				Description:            src.Description,
				AlwaysIncludeInIDToken: src.AlwaysIncludeInIDToken,
			}
		})
	return err
}
