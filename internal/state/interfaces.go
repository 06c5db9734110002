package state

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("state: store closed")

// Store is a string key-value store. Values are opaque to the store; callers
// encode records (usually JSON) themselves.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Get(ctx context.Context, key string) (string, bool, error)
	MultiGet(ctx context.Context, keys []string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	MultiSet(ctx context.Context, pairs []Pair) error
	Remove(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

type Pair struct {
	Key   string
	Value string
}
