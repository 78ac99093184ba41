package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/transcribed/internal/client/client"
	"github.com/dmitrijs2005/transcribed/internal/client/models"
	"github.com/dmitrijs2005/transcribed/internal/common"
)

// AuthService manages the account and the cached session.
type AuthService struct {
	client client.Client
	tokens *TokenStore
}

func NewAuthService(c client.Client, tokens *TokenStore) *AuthService {
	return &AuthService{client: c, tokens: tokens}
}

func (a *AuthService) Signup(ctx context.Context, username, email, password string) error {
	return a.client.Signup(ctx, username, email, password)
}

// Login authenticates and caches the returned token.
func (a *AuthService) Login(ctx context.Context, email, password string) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.tokens.Save(token)
}

// Logout revokes the token server side and forgets it locally. A token the
// server already rejects is forgotten all the same.
func (a *AuthService) Logout(ctx context.Context) error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	if err := a.client.Logout(ctx, token); err != nil && !errors.Is(err, common.ErrorUnauthorized) {
		return err
	}
	return a.tokens.Clear()
}

func (a *AuthService) Me(ctx context.Context) (*models.User, error) {
	token, err := a.tokens.Load()
	if err != nil {
		return nil, err
	}
	return a.client.Me(ctx, token)
}

// DeleteAccount removes the account with all its transcripts and forgets
// the session.
func (a *AuthService) DeleteAccount(ctx context.Context) error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	if err := a.client.DeleteAccount(ctx, token); err != nil {
		return err
	}
	return a.tokens.Clear()
}
