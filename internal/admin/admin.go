// Package admin holds the maintenance operations behind cmd/manager.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/duty-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var ErrAdminExists = errors.New("admin user already exists")

// Account is the admin document. Older documents carry the plain password
// under "password"; it is read but never written back.
type Account struct {
	Username       string `json:"username"`
	CredentialHash string `json:"password_hash,omitempty"`
	LegacyPassword string `json:"password,omitempty"`
}

type Manager struct {
	backend  repository.DocumentBackend
	store    repository.RecordStore
	adminDoc string
}

func NewManager(backend repository.DocumentBackend, store repository.RecordStore, adminDoc string) *Manager {
	return &Manager{backend: backend, store: store, adminDoc: adminDoc}
}

// CreateAdmin writes the admin document. An existing document for a
// different username is overwritten.
func (m *Manager) CreateAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	current, err := m.Admin(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.Username == username {
		return ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	data, err := json.MarshalIndent(Account{Username: username, CredentialHash: string(hash)}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode admin document: %w", err)
	}
	if err := m.backend.Save(ctx, m.adminDoc, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", m.adminDoc, err)
	}
	return nil
}

// Admin returns the stored admin account, or nil when there is none.
func (m *Manager) Admin(ctx context.Context) (*Account, error) {
	data, err := m.backend.Load(ctx, m.adminDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", m.adminDoc, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var account Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", m.adminDoc, err)
	}
	return &account, nil
}

// Purge replaces both data documents with empty collections.
func (m *Manager) Purge(ctx context.Context) error {
	if err := m.store.WriteUsers(ctx, nil); err != nil {
		return err
	}
	return m.store.WriteProjects(ctx, nil)
}
