package store

import (
	"context"
	"errors"

	"pass.share/internal/models"
)

var (
	ErrNotFound    = errors.New("secret not found")
	ErrExpired     = errors.New("secret has expired")
	ErrNoViewsLeft = errors.New("secret has no views left")
)

// Store keeps sealed secrets for the reference backend.
type Store interface {
	Save(ctx context.Context, secret *models.StoredSecret) error
	// Consume takes one view. The returned copy carries the views remaining
	// after this one; a secret left with none is deleted.
	Consume(ctx context.Context, id string) (*models.StoredSecret, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
