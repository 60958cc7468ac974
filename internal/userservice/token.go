package userservice

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("token is invalid or expired")
)

// TokenManager issues and verifies HS256 access and refresh tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type tokenClaims struct {
	TokenType tokenType `json:"token_type"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTime
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTime
	}

	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (tm *TokenManager) issue(userID int64, typ tokenType, ttl time.Duration) (string, error) {
	now := tm.now()

	claims := tokenClaims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign %s token: %w", typ, err)
	}

	return signed, nil
}

// NewAccessToken returns a short-lived bearer token for userID.
func (tm *TokenManager) NewAccessToken(userID int64) (string, error) {
	return tm.issue(userID, tokenTypeAccess, tm.accessTTL)
}

// NewTokenPair returns a refresh token together with an access token for userID.
func (tm *TokenManager) NewTokenPair(userID int64) (*AuthToken, error) {
	refresh, err := tm.issue(userID, tokenTypeRefresh, tm.refreshTTL)
	if err != nil {
		return nil, err
	}

	access, err := tm.NewAccessToken(userID)
	if err != nil {
		return nil, err
	}

	return &AuthToken{Refresh: refresh, Access: access}, nil
}

// parse verifies the signature, expiry and type of token and returns its subject.
func (tm *TokenManager) parse(token string, want tokenType) (int64, error) {
	var claims tokenClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return 0, ErrInvalidToken
	}

	if claims.TokenType != want {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidToken
	}

	return id, nil
}

func (tm *TokenManager) ParseAccessToken(token string) (int64, error) {
	return tm.parse(token, tokenTypeAccess)
}

func (tm *TokenManager) ParseRefreshToken(token string) (int64, error) {
	return tm.parse(token, tokenTypeRefresh)
}
