package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AccessTTL = time.Hour

var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("bad token signature")
	ErrMalformed    = errors.New("malformed token")
)

// AccessClaims is the payload of a signed access token. Subject carries the
// user's email, Role the comma-joined authority labels.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 access tokens. The current time is supplied
// by the injected now func so expiry is deterministic in tests.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec decodes the base64 shared secret. A nil now defaults to the wall
// clock.
func NewCodec(base64Secret string, now func() time.Time) (*Codec, error) {
	secret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode jwt secret: %w", err)
	}
	if len(secret) == 0 {
		return nil, errors.New("empty jwt secret")
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: secret, now: now}, nil
}

// Issue builds a signed token for the subject with a one-hour lifetime.
func (c *Codec) Issue(subject, role string) (string, error) {
	issuedAt := c.now()
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(AccessTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks the signature and the expiry against the codec clock.
func (c *Codec) Verify(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected sign method")
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !tkn.Valid {
		return nil, ErrMalformed
	}
	return &claims, nil
}

// Keyfunc exposes the signing secret to the echo-jwt middleware.
func (c *Codec) Keyfunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, errors.New("unexpected sign method")
	}
	return c.secret, nil
}

// Now returns the codec's current time.
func (c *Codec) Now() time.Time {
	return c.now()
}

// NewOpaqueToken returns 32 bytes of secure randomness as unpadded base64url,
// used for refresh tokens.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
