package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/transcribed/internal/client/client"
	"github.com/dmitrijs2005/transcribed/internal/client/models"
	"github.com/dmitrijs2005/transcribed/internal/common"
)

// TranscriptService runs transcript operations with the cached token.
type TranscriptService struct {
	client client.Client
	tokens *TokenStore
}

func NewTranscriptService(c client.Client, tokens *TokenStore) *TranscriptService {
	return &TranscriptService{client: c, tokens: tokens}
}

func (s *TranscriptService) List(ctx context.Context) ([]*models.Transcript, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	return s.client.List(ctx, token)
}

func (s *TranscriptService) Get(ctx context.Context, id string) (*models.Transcript, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	return s.client.Get(ctx, token, id)
}

// Upload sends the audio file at path for transcription.
func (s *TranscriptService) Upload(ctx context.Context, path, name string) (*models.Transcript, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return s.client.Upload(ctx, token, filepath.Base(path), data, name)
}

func (s *TranscriptService) Rename(ctx context.Context, id, name string) (*models.Transcript, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	return s.client.Update(ctx, token, id, &name, nil)
}

func (s *TranscriptService) EditText(ctx context.Context, id, text string) (*models.Transcript, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	return s.client.Update(ctx, token, id, nil, &text)
}

func (s *TranscriptService) ReplaceAudio(ctx context.Context, id, path string) (*models.Transcript, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return s.client.ReplaceAudio(ctx, token, id, filepath.Base(path), data)
}

func (s *TranscriptService) Delete(ctx context.Context, id string) error {
	token, err := s.tokens.Load()
	if err != nil {
		return err
	}
	return s.client.Delete(ctx, token, id)
}

// DownloadAudio writes the transcript's audio to w.
func (s *TranscriptService) DownloadAudio(ctx context.Context, id string, w io.Writer) (int64, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !t.HasAudio() {
		return 0, fmt.Errorf("%w: transcript %s has no audio", common.ErrorNotFound, id)
	}
	return s.client.DownloadAudio(ctx, t.AudioURL, w)
}
