package transcripts

import (
	"context"

	"github.com/dmitrijs2005/transcribed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.Transcript) (*models.Transcript, error)
	GetByID(ctx context.Context, id string) (*models.Transcript, error)
	// ListByUser returns the owner's transcripts, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Transcript, error)
	Update(ctx context.Context, t *models.Transcript) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
