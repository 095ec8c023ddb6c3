package utils // package utils provides helpers for session tokens and random values

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding of random bytes
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for any token that fails to parse, has a bad
// signature, is expired or carries no email.
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims are the claims carried by an admin session.  Subject and
// Email both hold the lower-cased email address.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionToken is a signed session JWT along with its expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken builds and signs an HS256 JWT for email, valid for ttl.
func NewSessionToken(secret, email string, ttl time.Duration) (SessionToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return SessionToken{}, errors.New("session token needs an email")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns its claims.  Only HMAC signed
// tokens are accepted; the email is returned lower-cased.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	claims.Email = strings.ToLower(strings.TrimSpace(email))
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrInvalidSession)
	}
	return claims, nil
}

// NewOAuthState returns an unguessable value for the OAuth state parameter.
func NewOAuthState() (string, error) {
	return randomHex(24)
}

// randomHex returns a hex string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
