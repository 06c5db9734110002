package state

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	EngineSQLite = "sqlite"
	EngineJSON   = "json"
	EngineMemory = "memory"
)

// NewByEngine opens the store for engine under dataDir. An empty engine
// selects sqlite.
func NewByEngine(engine string, dataDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSQLite:
		return NewSQLite(filepath.Join(dataDir, "state.db"))
	case EngineJSON:
		return NewJSONStore(filepath.Join(dataDir, "state.json"))
	case EngineMemory:
		return NewMemory(), nil
	default:
		return nil, errors.New("unsupported store engine: " + engine)
	}
}
