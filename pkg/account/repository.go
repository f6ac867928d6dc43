package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSearchFilter     = errors.New("at least one search filter is required")
)

// SearchFilter holds optional name-prefix predicates. An empty string means
// the predicate is absent; at least one must be set before querying.
type SearchFilter struct {
	FirstNamePrefix  string
	SecondNamePrefix string
}

// Empty reports whether no predicate is set.
func (f SearchFilter) Empty() bool {
	return f.FirstNamePrefix == "" && f.SecondNamePrefix == ""
}

// Repository abstracts persistence concerns from the domain layer.
// Implementations may be in-memory, SQL, NoSQL, etc.
type Repository interface {
	Create(ctx context.Context, user User, passwordHash string) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
	// Search returns users matching the filter ordered by id ascending.
	Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]User, error)
}
