package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// FindByClientID returns at most two clients stored under clientID, with
	// every dependent collection loaded.
	FindByClientID(ctx context.Context, db *gorm.DB, clientID string) ([]*Client, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*Client, error)
	Exists(ctx context.Context, db *gorm.DB, clientID string) (bool, error)
	Create(ctx context.Context, db *gorm.DB, client *Client) error
	Delete(ctx context.Context, db *gorm.DB, client *Client) error
}
