// Package favorites keeps the set of favorited title ids.
package favorites

import (
	"context"
	"errors"
)

var ErrEmptyID = errors.New("title id is required")

// Store defines the contract for favorite persistence. Add and Remove are
// idempotent.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, titleID string) error
	Remove(ctx context.Context, titleID string) error
	IsFavorite(ctx context.Context, titleID string) (bool, error)
}
