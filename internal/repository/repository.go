package repository

import (
	"context"

	"github.com/yukikurage/duty-tracker/internal/records"
)

// RecordStore persists the identity and project documents as whole sets.
type RecordStore interface {
	// ReadAll loads both documents. A missing document reads as empty.
	ReadAll(ctx context.Context) ([]records.UserRecord, []records.ProjectRecord, error)

	// WriteUsers replaces the identity document.
	WriteUsers(ctx context.Context, users []records.UserRecord) error

	// WriteProjects replaces the project document.
	WriteProjects(ctx context.Context, projects []records.ProjectRecord) error
}

// DocumentBackend stores named opaque documents.
type DocumentBackend interface {
	// Load returns the document body, or nil with no error when it does not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the document body.
	Save(ctx context.Context, name string, data []byte) error
}
