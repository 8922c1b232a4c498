package repository

import (
	"context"

	"github.com/railzwaylabs/idsrvctl/internal/client/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func withCollections(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Secrets", orderByID).
		Preload("RedirectURIs", orderByID).
		Preload("PostLogoutRedirectURIs", orderByID).
		Preload("GrantTypeRestrictions", orderByID).
		Preload("ScopeRestrictions", orderByID).
		Preload("IdPRestrictions", orderByID).
		Preload("Claims", orderByID)
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *repo) FindByClientID(ctx context.Context, db *gorm.DB, clientID string) ([]*domain.Client, error) {
	var items []*domain.Client
	err := withCollections(db.WithContext(ctx)).
		Where("client_id = ?", clientID).
		Limit(2).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]*domain.Client, error) {
	var items []*domain.Client
	err := withCollections(db.WithContext(ctx)).
		Order("client_id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, clientID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	if client == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	if client == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Select(clause.Associations).Delete(client).Error
}
