// Package services contains the CLI client's application services: the
// cached session token and thin wrappers over the API client that apply it.
package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/filex"
)

var ErrNotLoggedIn = errors.New("not logged in, run login first")

// TokenStore caches the access token in a single 0600 file.
type TokenStore struct {
	path string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

func (s *TokenStore) Path() string { return s.path }

func (s *TokenStore) Save(token string) error {
	if _, err := filex.EnsureDir(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.path, []byte(token+"\n"), 0o600)
}

func (s *TokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
