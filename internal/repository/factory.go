package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/yukikurage/duty-tracker/internal/config"
	"github.com/yukikurage/duty-tracker/internal/database"
	"github.com/yukikurage/duty-tracker/internal/logging"
	"gorm.io/gorm"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopClose = closerFunc(func() error { return nil })

// OpenBackend opens the document backend selected by cfg.StoreDriver. The
// returned closer releases the backend's handles.
func OpenBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (DocumentBackend, io.Closer, error) {
	if log == nil {
		log = logging.Discard()
	}
	switch cfg.StoreDriver {
	case config.StoreFile:
		return NewFileBackend(cfg.DataDir), nopClose, nil

	case config.StoreMemory:
		return NewMemoryBackend(), nopClose, nil

	case config.StoreGorm:
		db, err := database.Connect(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return openGorm(db, log)

	case config.StoreBadger:
		backend, err := OpenBadger(cfg.BadgerPath, log)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil

	case config.StoreS3:
		backend, err := NewS3Backend(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			KeyPrefix: cfg.S3Prefix,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return backend, nopClose, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// openGorm migrates db and hands back its sql handle as the closer. The
// handle is closed when migration fails.
func openGorm(db *gorm.DB, log *slog.Logger) (DocumentBackend, io.Closer, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return NewGormBackend(db), sqlDB, nil
}

// Open opens the configured backend and wraps it in a RecordStore.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*DocumentRecordStore, io.Closer, error) {
	if log == nil {
		log = logging.Discard()
	}
	backend, closer, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("record store opened", "driver", cfg.StoreDriver)
	return NewRecordStore(backend, cfg.UsersDocument, cfg.ProjectsDocument), closer, nil
}
