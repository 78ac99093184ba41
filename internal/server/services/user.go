package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/dbx"
	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/dmitrijs2005/transcribed/internal/server/auth"
	"github.com/dmitrijs2005/transcribed/internal/server/blobstore"
	"github.com/dmitrijs2005/transcribed/internal/server/models"
	"github.com/dmitrijs2005/transcribed/internal/server/repositories/repomanager"
	"golang.org/x/text/cases"
)

// Tokens issues, verifies and revokes access tokens.
type Tokens interface {
	Issue(subjectID string) (string, error)
	Verify(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      Tokens
	hasher      auth.PasswordHasher
	blobs       blobstore.Store
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens Tokens, hasher auth.PasswordHasher,
	blobs blobstore.Store, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		blobs:       blobs,
		logger:      logger.With("module", "users"),
	}
}

// NormalizeEmail trims and case-folds an address for storage and lookup.
func NormalizeEmail(email string) string {
	// a Caser is stateful, so one is built per call
	return cases.Fold().String(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}

// Signup creates an account. A blank username defaults to the local part of
// the email.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: missing required fields", common.ErrorValidation)
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: malformed email", common.ErrorValidation)
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = email[:strings.LastIndex(email, "@")]
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "hash password failed", "error", err)
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{UserName: username, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// Login returns an access token for valid credentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: missing email or password", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "get user failed", "error", err)
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error(ctx, "issue token failed", "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "get user failed", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// Logout revokes token for the rest of its lifetime.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) {
			return err
		}
		s.logger.Error(ctx, "revoke token failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// DeleteAccount removes the user's blobs, then their transcripts and the
// user row in one transaction. The owner's blob container goes last, best
// effort.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	list, err := s.repomanager.Transcripts(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "list transcripts failed", "error", err)
		return common.ErrorInternal
	}

	for _, t := range list {
		if !t.HasAudio() {
			continue
		}
		if err := s.blobs.Delete(ctx, userID, t.AudioFilename); err != nil {
			s.logger.Warn(ctx, "delete blob failed", "user_id", userID, "filename", t.AudioFilename, "error", err)
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Transcripts(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "delete account failed", "error", err)
		return common.ErrorInternal
	}

	if r, ok := s.blobs.(blobstore.OwnerRemover); ok {
		if err := r.RemoveOwner(ctx, userID); err != nil {
			s.logger.Warn(ctx, "remove owner blobs failed", "user_id", userID, "error", err)
		}
	}

	s.logger.Info(ctx, "account deleted", "user_id", userID, "transcripts", len(list))
	return nil
}
