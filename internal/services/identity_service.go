package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/duty-tracker/internal/constants"
	"github.com/yukikurage/duty-tracker/internal/metrics"
	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/records"
	"github.com/yukikurage/duty-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService handles registration and authentication.
type IdentityService struct {
	store repository.RecordStore
	instrumentation
}

// NewIdentityService creates a new IdentityService. log and rec may be nil.
func NewIdentityService(store repository.RecordStore, log *slog.Logger, rec metrics.Recorder) *IdentityService {
	return &IdentityService{
		store:           store,
		instrumentation: newInstrumentation(log, rec),
	}
}

// RegisterInput represents the required information to create a new identity.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new active identity.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (identity *models.Identity, err error) {
	started := time.Now()
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	defer func() { s.done("register", started, err, "user", username) }()

	if username == "" {
		return nil, models.NewEntityError("field", "username", models.ErrMissingField)
	}
	if email == "" {
		return nil, models.NewEntityError("field", "email", models.ErrMissingField)
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, models.ErrPasswordTooShort
	}

	users, _, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		if u.Username == username {
			return nil, models.NewEntityError("user", username, models.ErrDuplicateIdentity)
		}
		if u.EmailAddress == email {
			return nil, models.NewEntityError("email", email, models.ErrDuplicateIdentity)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity = models.NewIdentity(username, email, string(hashedPassword))
	active := true
	users = append(users, records.UserRecord{
		Username:       identity.Username,
		EmailAddress:   identity.EmailAddress,
		CredentialHash: identity.CredentialHash,
		Active:         &active,
	})
	if err := s.store.WriteUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to save users: %w", err)
	}
	return identity, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Authenticate verifies credentials and returns the matching identity.
func (s *IdentityService) Authenticate(ctx context.Context, input LoginInput) (identity *models.Identity, err error) {
	started := time.Now()
	defer func() { s.done("authenticate", started, err, "user", input.Username) }()

	identity, err = s.lookup(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if !VerifyCredential(identity.CredentialHash, input.Password) {
		return nil, models.NewEntityError("user", input.Username, models.ErrInvalidCredential)
	}
	if !identity.Active {
		return nil, models.NewEntityError("user", input.Username, models.ErrIdentityInactive)
	}
	return identity, nil
}

// GetIdentity returns the identity registered under username.
func (s *IdentityService) GetIdentity(ctx context.Context, username string) (*models.Identity, error) {
	return s.lookup(ctx, username)
}

func (s *IdentityService) lookup(ctx context.Context, username string) (*models.Identity, error) {
	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return nil, err
	}
	identity, ok := snap.identity(username)
	if !ok {
		return nil, models.NewEntityError("user", username, models.ErrUserNotFound)
	}
	return identity, nil
}

// VerifyCredential checks password against a bcrypt hash, or against the
// unsalted SHA-256 hex digest written by older versions of the tracker.
func VerifyCredential(hash, password string) bool {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	sum := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(hex.EncodeToString(sum[:]))) == 1
}
