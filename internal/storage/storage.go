package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/lendsqr-admin/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// HandoffStore carries the last activated row from a list view to the detail
// view. Each session owns exactly one slot; a later Put overwrites it.
type HandoffStore interface {
	Put(ctx context.Context, sessionID string, user models.User) error
	Get(ctx context.Context, sessionID string) (models.User, error)
}
