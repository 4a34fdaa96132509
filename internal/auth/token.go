// ABOUTME: JWT token codec for issuing and verifying signed bearer tokens
// ABOUTME: Uses HS256 with a process-wide secret loaded once at startup

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum number of bytes required for the signing secret.
const MinSecretLength = 32

// DefaultTokenTTL is how long issued tokens remain valid.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification.
// Malformed input, signature mismatch, and expiry all collapse into this
// single error so callers cannot distinguish why a token was rejected.
var ErrInvalidToken = errors.New("invalid token")

// Codec issues and verifies signed bearer tokens carrying a subject and role.
// The signing secret is read-only after construction and safe for concurrent
// use. There is no revocation list: a token is valid until it expires or the
// secret is rotated.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a token codec with the given signing secret and token TTL.
// The secret must be at least MinSecretLength bytes. A non-positive TTL falls
// back to DefaultTokenTTL.
func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Codec{secret: secret, ttl: ttl}, nil
}

// Issue creates a signed token for the given subject and role.
// The role travels inside the token and is never re-read from the credential
// store at verify time, so a role change only takes effect once the holder's
// current token expires.
func (c *Codec) Issue(subject, role string) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(c.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify recomputes the signature, checks expiry, and extracts the identity.
// Verification is pure computation with no side effects or store lookups.
func (c *Codec) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{Subject: sub, Role: NormalizeRole(role)}, nil
}
