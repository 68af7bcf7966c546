package storage

import (
	"fmt"
	"log/slog"

	"github.com/IshaanNene/netsat/internal/config"
	"github.com/IshaanNene/netsat/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store persists a batch of majors.
	Store(majors []*types.Major) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the backend selected by cfg.Storage.Type.
func New(cfg *config.Config, logger *slog.Logger) (Storage, error) {
	if cfg.Storage.Type != "multi" {
		return newBackend(cfg.Storage.Type, cfg, logger)
	}

	backends := make([]Storage, 0, len(cfg.Storage.Backends))
	for _, name := range cfg.Storage.Backends {
		b, err := newBackend(name, cfg, logger)
		if err != nil {
			for _, opened := range backends {
				_ = opened.Close()
			}
			return nil, err
		}
		backends = append(backends, b)
	}
	return NewMultiStorage(backends, logger), nil
}

func newBackend(storageType string, cfg *config.Config, logger *slog.Logger) (Storage, error) {
	switch storageType {
	case "json", "jsonl", "csv":
		return NewFileStorage(storageType, cfg.Storage.OutputPath, logger)
	case "mongodb":
		return NewMongoStorage(&cfg.Mongo, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
