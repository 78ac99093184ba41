package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/transcribed/internal/client/models"
)

// Client is the server API. Methods that need a session take the bearer
// token explicitly.
type Client interface {
	Signup(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*models.User, error)
	DeleteAccount(ctx context.Context, token string) error

	List(ctx context.Context, token string) ([]*models.Transcript, error)
	Get(ctx context.Context, token, id string) (*models.Transcript, error)
	Upload(ctx context.Context, token, filename string, data []byte, name string) (*models.Transcript, error)
	Update(ctx context.Context, token, id string, name, text *string) (*models.Transcript, error)
	ReplaceAudio(ctx context.Context, token, id, filename string, data []byte) (*models.Transcript, error)
	Delete(ctx context.Context, token, id string) error

	// DownloadAudio fetches a transcript's audioUrl into w.
	DownloadAudio(ctx context.Context, audioURL string, w io.Writer) (int64, error)
}
