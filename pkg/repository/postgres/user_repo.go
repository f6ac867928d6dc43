package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akozlov/accounts/pkg/account"
)

// UserRepository implements account.Repository backed by PostgreSQL (pgx).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user account.User, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, password_hash, first_name, second_name, is_male, birthdate, biography, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, passwordHash, user.FirstName, user.SecondName, user.IsMale, user.BirthDate, user.Biography, user.City)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return account.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (account.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, second_name, is_male, birthdate, biography, city
		FROM users WHERE id = $1
	`, id)
	var user account.User
	if err := row.Scan(&user.ID, &user.FirstName, &user.SecondName, &user.IsMale, &user.BirthDate, &user.Biography, &user.City); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.User{}, account.ErrNotFound
		}
		return account.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", account.ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

func (r *UserRepository) Search(ctx context.Context, filter account.SearchFilter, limit, offset int) ([]account.User, error) {
	query, args := buildSearchQuery(filter, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]account.User, 0)
	for rows.Next() {
		var user account.User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.SecondName, &user.IsMale, &user.BirthDate, &user.Biography, &user.City); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// buildSearchQuery renders the variable filter list into positional
// placeholders. Prefix values are always bound parameters; user input never
// reaches the SQL text itself.
func buildSearchQuery(filter account.SearchFilter, limit, offset int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, first_name, second_name, is_male, birthdate, biography, city FROM users`)

	var (
		predicates []string
		args       []any
	)
	if filter.FirstNamePrefix != "" {
		args = append(args, filter.FirstNamePrefix+"%")
		predicates = append(predicates, fmt.Sprintf("first_name LIKE $%d", len(args)))
	}
	if filter.SecondNamePrefix != "" {
		args = append(args, filter.SecondNamePrefix+"%")
		predicates = append(predicates, fmt.Sprintf("second_name LIKE $%d", len(args)))
	}
	if len(predicates) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(predicates, " AND "))
	}

	sb.WriteString(" ORDER BY id")

	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}
