// Package auth issues and verifies access tokens, hashes passwords and
// decides who may read stored audio.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the subject (user id) and a unique token id used for
// revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for userID that expires after validityDuration.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	return token.SignedString(secretKey)
}

// ParseToken validates signature, algorithm and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired; every other failure wraps
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken returns the subject of a valid token.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// TokenManager issues tokens with a fixed validity and checks them against a
// revocation list.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	revoker  Revoker
}

func NewTokenManager(secretKey string, validity time.Duration, revoker Revoker) *TokenManager {
	if revoker == nil {
		revoker = NopRevoker{}
	}
	return &TokenManager{secret: []byte(secretKey), validity: validity, revoker: revoker}
}

func (m *TokenManager) Issue(subjectID string) (string, error) {
	return GenerateToken(subjectID, m.secret, m.validity)
}

// Verify returns the subject id of a valid, unrevoked token.
func (m *TokenManager) Verify(ctx context.Context, token string) (string, error) {
	claims, err := ParseToken(token, m.secret)
	if err != nil {
		return "", err
	}

	if claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", fmt.Errorf("%w: revocation check: %v", common.ErrorInternal, err)
		}
		if revoked {
			return "", fmt.Errorf("%w: revoked", common.ErrInvalidToken)
		}
	}

	return claims.Subject, nil
}

// Revoke blocks token until its own expiry. An already invalid token is
// reported as such.
func (m *TokenManager) Revoke(ctx context.Context, token string) error {
	claims, err := ParseToken(token, m.secret)
	if err != nil {
		return err
	}
	if claims.ID == "" {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return m.revoker.Revoke(ctx, claims.ID, ttl)
}
