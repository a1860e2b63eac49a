// Package store persists tracked cloud resources.
package store

import (
	"context"
	"errors"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

var (
	// ErrNotFound is returned when no resource matches the requested key.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateName is returned by Create when the name is already taken.
	ErrDuplicateName = errors.New("resource name already exists")
)

// Store is the resource repository consumed by the CLI and ingestion.
// List returns resources ordered by ascending ID; the engine evaluates them
// in that order.
type Store interface {
	List(ctx context.Context) ([]models.Resource, error)
	Get(ctx context.Context, id int64) (*models.Resource, error)
	GetByName(ctx context.Context, name string) (*models.Resource, error)

	// Create inserts r and sets r.ID, r.CreatedAt and r.UpdatedAt.
	Create(ctx context.Context, r *models.Resource) error

	// Upsert inserts r or replaces the measurements of the resource with the
	// same name. It reports whether a new row was created.
	Upsert(ctx context.Context, r *models.Resource) (created bool, err error)

	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close()
}
