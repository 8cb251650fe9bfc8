// Package token implements the signed bearer tokens handed out at login.
//
// Tokens are HS256 JWTs carrying only sub, iat and exp. Nothing is stored
// server-side, so a token stays valid until it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/privytune/backend/internal/core/domain"
)

// ErrMissingSecret is returned by NewJWTCodec when no signing key is configured.
var ErrMissingSecret = errors.New("token: signing secret is required")

// Config is the immutable signing configuration shared by every instance that
// issues or validates tokens.
type Config struct {
	Secret []byte
	// Now overrides the wall clock. Used by tests.
	Now func() time.Time
}

// JWTCodec issues and validates HS256 tokens.
type JWTCodec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTCodec copies cfg.Secret so later mutation of the caller's slice has no effect.
func NewJWTCodec(cfg Config) (*JWTCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &JWTCodec{
		secret: secret,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// Issue signs a token for subject that expires after ttl.
func (c *JWTCodec) Issue(subject string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of tokenString and returns its subject.
func (c *JWTCodec) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", domain.ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	tkn, err := c.parser.ParseWithClaims(tokenString, &claims, c.keyFunc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

func (c *JWTCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return c.secret, nil
}
