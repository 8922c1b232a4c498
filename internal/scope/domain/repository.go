package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// FindByName returns at most two scopes stored under name, claims loaded.
	FindByName(ctx context.Context, db *gorm.DB, name string) ([]*Scope, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*Scope, error)
	Exists(ctx context.Context, db *gorm.DB, name string) (bool, error)
	Create(ctx context.Context, db *gorm.DB, scope *Scope) error
	Delete(ctx context.Context, db *gorm.DB, scope *Scope) error
}
