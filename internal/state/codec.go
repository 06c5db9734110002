package state

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetJSON decodes the value at key into v. It reports false when the key is
// absent, leaving v untouched.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	p, err := JSONPair(key, v)
	if err != nil {
		return err
	}
	return s.Set(ctx, p.Key, p.Value)
}

// JSONPair encodes v for key so it can join a MultiSet batch.
func JSONPair(key string, v any) (Pair, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Pair{}, fmt.Errorf("encode %s: %w", key, err)
	}
	return Pair{Key: key, Value: string(b)}, nil
}
