package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/yukikurage/duty-tracker/internal/admin"
	"github.com/yukikurage/duty-tracker/internal/config"
	"github.com/yukikurage/duty-tracker/internal/logging"
	"github.com/yukikurage/duty-tracker/internal/repository"
)

func main() {
	if err := newRootCmd(openManager).Execute(); err != nil {
		os.Exit(1)
	}
}

// openManager opens the configured backend once and shares it between the
// admin document and the record store.
func openManager(ctx context.Context) (*admin.Manager, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// Console only, so there is no log file to close.
	log, _, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		return nil, nil, err
	}

	backend, closer, err := repository.OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	store := repository.NewRecordStore(backend, cfg.UsersDocument, cfg.ProjectsDocument)
	return admin.NewManager(backend, store, cfg.AdminDocument), closer, nil
}
