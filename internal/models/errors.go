package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error unwraps to exactly one of these.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyInState = errors.New("already in state")
)

var (
	ErrUserNotFound     = newKindError(ErrNotFound, "user not found")
	ErrLeaderNotFound   = newKindError(ErrNotFound, "leader not found")
	ErrAssigneeNotFound = newKindError(ErrNotFound, "one or more assignees not found")
	ErrProjectNotFound  = newKindError(ErrNotFound, "project not found")
	ErrDutyNotFound     = newKindError(ErrNotFound, "duty not found")

	ErrDuplicateIdentity  = newKindError(ErrDuplicateKey, "username or email already exists")
	ErrDuplicateProjectID = newKindError(ErrDuplicateKey, "project id already exists")
	ErrDuplicateDutyID    = newKindError(ErrDuplicateKey, "duty id already exists in project")

	ErrInvalidCredential = newKindError(ErrUnauthorized, "invalid username or password")
	ErrIdentityInactive  = newKindError(ErrUnauthorized, "account is disabled")
	ErrNotLeader         = newKindError(ErrUnauthorized, "only the project leader can perform this action")
	ErrNotAssignee       = newKindError(ErrUnauthorized, "only the current assignee can edit this duty")
	ErrNotProjectMember  = newKindError(ErrUnauthorized, "user is not a member of the project")

	ErrNotAMember       = newKindError(ErrInvalidInput, "assignment target is not a member of the project")
	ErrInvalidEnumValue = newKindError(ErrInvalidInput, "invalid enum value")
	ErrInvalidTimestamp = newKindError(ErrInvalidInput, "invalid timestamp")
	ErrMissingField     = newKindError(ErrInvalidInput, "required field is empty")
	ErrPasswordTooShort = newKindError(ErrInvalidInput, "password too short")

	ErrAlreadyMember = newKindError(ErrAlreadyInState, "user is already a member of the project")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// EntityError attaches the entity kind and key to a domain error so callers
// can render messages like `duty "D1": duty not found`.
type EntityError struct {
	Entity string
	Key    string
	Err    error
}

// NewEntityError wraps err with entity context.
func NewEntityError(entity, key string, err error) *EntityError {
	return &EntityError{Entity: entity, Key: key, Err: err}
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Entity, e.Key, e.Err)
}

func (e *EntityError) Unwrap() error { return e.Err }

// KindOf returns the taxonomy kind of err, or nil for errors outside it.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrDuplicateKey, ErrUnauthorized, ErrInvalidInput, ErrAlreadyInState} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
