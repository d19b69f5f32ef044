package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"yatube/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"

	issuerName = "yatube"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() model.Principal {
	return model.Principal{UserID: c.UserID, Username: c.Username}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *Issuer) IssuePair(u model.User) (TokenPair, error) {
	access, err := i.issue(u.ID, u.Username, AccessToken, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.issue(u.ID, u.Username, RefreshToken, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) IssueAccess(u model.User) (string, error) {
	return i.issue(u.ID, u.Username, AccessToken, i.accessTTL)
}

func (i *Issuer) issue(userID int64, username string, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuerName,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and type of a token.
func (i *Issuer) Parse(token string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, want, claims.TokenType)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: no user", ErrInvalidToken)
	}
	return claims, nil
}
