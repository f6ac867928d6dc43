package account

import (
	"context"

	"github.com/google/uuid"
)

// TokenIssuer abstracts bearer-token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
}
