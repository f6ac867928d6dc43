package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akozlov/accounts/pkg/security/password"
)

// UseCase describes registration, authentication and directory lookups.
type UseCase interface {
	Register(ctx context.Context, reg Registration) (User, error)
	Login(ctx context.Context, id uuid.UUID, password string) (string, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]User, error)
}

// Registration carries the fields needed to create an account.
type Registration struct {
	FirstName  string
	SecondName string
	IsMale     bool
	BirthDate  time.Time
	Biography  string
	City       string
	Password   string
}

type service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) UseCase {
	return &service{repo: repo, hasher: hasher, tokens: tokens}
}

func (s *service) Register(ctx context.Context, reg Registration) (User, error) {
	if strings.TrimSpace(reg.FirstName) == "" || strings.TrimSpace(reg.SecondName) == "" || reg.Password == "" {
		return User{}, ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:         uuid.New(),
		FirstName:  reg.FirstName,
		SecondName: reg.SecondName,
		IsMale:     reg.IsMale,
		BirthDate:  reg.BirthDate,
		Biography:  reg.Biography,
		City:       reg.City,
	}
	if err := s.repo.Create(ctx, user, passwordHash); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login conflates "unknown id" and "wrong password" into ErrInvalidCredentials
// so the response cannot be used to enumerate accounts.
func (s *service) Login(ctx context.Context, id uuid.UUID, pass string) (string, error) {
	passwordHash, err := s.repo.GetPasswordHash(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := s.hasher.Verify(pass, passwordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", ErrInvalidCredentials
		}
		// A stored hash that cannot be decoded is a data problem, not a
		// credentials problem.
		return "", err
	}
	return s.tokens.Issue(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]User, error) {
	filter.FirstNamePrefix = strings.TrimSpace(filter.FirstNamePrefix)
	filter.SecondNamePrefix = strings.TrimSpace(filter.SecondNamePrefix)
	if filter.Empty() {
		return nil, ErrNoSearchFilter
	}
	return s.repo.Search(ctx, filter, limit, offset)
}
