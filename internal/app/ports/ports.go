// Package ports declares what the game use cases need from the outside:
// a transaction boundary, a journal and metrics.
package ports

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when a session has no events.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a journal write that collides with an existing event.
	ErrConflict = errors.New("conflict")
)

// TxManager runs fn as one serialized game call. Implementations hand a
// derived context to fn; repositories must use it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
