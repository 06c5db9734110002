package media

import (
	"context"
	"errors"
)

var (
	ErrForeignURI = errors.New("media: uri does not belong to this store")
	ErrNotFound   = errors.New("media: object not found")
)

// Store keeps note photos. Put returns the URI later passed to Get and
// Delete.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, uri string) ([]byte, error)
	Delete(ctx context.Context, uri string) error
}
