package repository

import (
	"context"

	"github.com/railzwaylabs/idsrvctl/internal/scope/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func withClaims(db *gorm.DB) *gorm.DB {
	return db.Preload("Claims", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) ([]*domain.Scope, error) {
	var items []*domain.Scope
	err := withClaims(db.WithContext(ctx)).
		Where("name = ?", name).
		Limit(2).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]*domain.Scope, error) {
	var items []*domain.Scope
	err := withClaims(db.WithContext(ctx)).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Scope{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, scope *domain.Scope) error {
	if scope == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(scope).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, scope *domain.Scope) error {
	if scope == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Select(clause.Associations).Delete(scope).Error
}
