package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/duty-tracker/internal/records"
)

// DocumentRecordStore is a RecordStore over any DocumentBackend.
type DocumentRecordStore struct {
	backend     DocumentBackend
	usersDoc    string
	projectsDoc string
}

// NewRecordStore creates a RecordStore keeping users and projects in the
// named documents of backend.
func NewRecordStore(backend DocumentBackend, usersDoc, projectsDoc string) *DocumentRecordStore {
	return &DocumentRecordStore{backend: backend, usersDoc: usersDoc, projectsDoc: projectsDoc}
}

func (s *DocumentRecordStore) ReadAll(ctx context.Context) ([]records.UserRecord, []records.ProjectRecord, error) {
	usersData, err := s.backend.Load(ctx, s.usersDoc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", s.usersDoc, err)
	}
	users, err := records.DecodeUsers(usersData)
	if err != nil {
		return nil, nil, err
	}

	projectsData, err := s.backend.Load(ctx, s.projectsDoc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", s.projectsDoc, err)
	}
	projects, err := records.DecodeProjects(projectsData)
	if err != nil {
		return nil, nil, err
	}
	return users, projects, nil
}

func (s *DocumentRecordStore) WriteUsers(ctx context.Context, users []records.UserRecord) error {
	data, err := records.EncodeUsers(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := s.backend.Save(ctx, s.usersDoc, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.usersDoc, err)
	}
	return nil
}

func (s *DocumentRecordStore) WriteProjects(ctx context.Context, projects []records.ProjectRecord) error {
	data, err := records.EncodeProjects(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	if err := s.backend.Save(ctx, s.projectsDoc, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.projectsDoc, err)
	}
	return nil
}
