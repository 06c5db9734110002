package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

type Config struct {
	Backend string
	DataDir string
	Minio   MinioConfig
}

// New opens the configured backend. Local photos live under
// <DataDir>/photos.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendLocal:
		return NewLocal(filepath.Join(cfg.DataDir, "photos"))
	case BackendMinio:
		s, err := NewMinio(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported media backend: %s", cfg.Backend)
	}
}
