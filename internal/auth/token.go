// Package auth issues and checks login tokens, verifies account passwords, and throttles repeated
// login attempts per peer.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultSecret = "scrapper-dev-secret-change-me"
	Issuer        = "scrapper-login"
	TokenVersion  = 1

	maxClockSkew = 60 * time.Second
)

var (
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrEmptyUsername = errors.New("auth: empty username")
	ErrDefaultSecret = errors.New("auth: secret must be set to a non-default value in production")
)

// Claims is the token payload. Ver lets the zone server reject tokens from an older login server.
type Claims struct {
	Username string `json:"username"`
	Ver      int    `json:"ver"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 login tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a signer. In production the default or an empty secret is refused.
func NewTokens(secret string, ttl time.Duration, production bool) (*Tokens, error) {
	secret = strings.TrimSpace(secret)
	if production && (secret == "" || secret == DefaultSecret) {
		return nil, ErrDefaultSecret
	}
	if secret == "" {
		secret = DefaultSecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func IsProduction(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return true
	}
	return false
}

func (t *Tokens) Issue(username string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", time.Time{}, ErrEmptyUsername
	}
	now := t.now().UTC()
	expires := now.Add(t.ttl)
	claims := Claims{
		Username: username,
		Ver:      TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies signature, issuer, version and lifetime. Every failure wraps ErrInvalidToken.
func (t *Tokens) Parse(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(maxClockSkew),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Username) == "" {
		return Claims{}, fmt.Errorf("%w: missing username claim", ErrInvalidToken)
	}
	if claims.Ver != TokenVersion {
		return Claims{}, fmt.Errorf("%w: unsupported token version %d", ErrInvalidToken, claims.Ver)
	}
	return claims, nil
}
