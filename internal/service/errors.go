package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*domain.User, error)
	TouchLogin(ctx context.Context, id uuid.UUID) error
}

// AuditEntry is the request-scoped view of an audit event, translated into
// a domain.AuditLog by the audit service.
type AuditEntry struct {
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	UserAgent    string
	StatusCode   int
	Changes      string
}
