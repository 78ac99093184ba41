package users

import (
	"context"

	"github.com/dmitrijs2005/transcribed/internal/server/models"
)

// Repository stores accounts. Emails arrive case-folded from the service
// layer and are matched exactly.
//
// Create returns common.ErrorAlreadyExists when the email is taken. The
// lookups return common.ErrorNotFound for unknown keys. Delete removes only
// the users row; transcripts go first, in the same transaction.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
