// Package token issues and validates the signed bearer tokens that carry
// identity and role claims between requests. Tokens are stateless; the only
// invalidation is expiry.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the claim set extracted from a validated token.
type Identity struct {
	Username string
	Roles    []string
}

// Service signs and verifies HS256 bearer tokens.
type Service struct {
	secret   []byte
	validity time.Duration
}

// NewService creates a token service. When secret is empty a process-lifetime
// random key is generated, which makes tokens unverifiable across restarts.
// That is a dev-mode fallback only and is logged as such.
func NewService(secret string, validity time.Duration) *Service {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("Failed to generate signing key: %v", err)
		}
		log.Println("JWT_SECRET not configured; using an ephemeral signing key (tokens will not survive a restart)")
	}

	return &Service{
		secret:   key,
		validity: validity,
	}
}

// Issue produces a signed token embedding the username and role claims.
func (s *Service) Issue(username string, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   username,
		"roles": roles,
		"iat":   now.Unix(),
		"exp":   now.Add(s.validity).Unix(),
		"jti":   uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate reports whether the token is well-formed, correctly signed, and
// unexpired. It never fails upward; any malformed input is simply invalid.
func (s *Service) Validate(tokenString string) bool {
	_, err := s.parse(tokenString)
	return err == nil
}

// Claims extracts the identity from a token. It returns ErrInvalidToken for
// anything that does not validate, so callers cannot silently read claims
// out of a bad token.
func (s *Service) Claims(tokenString string) (Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return Identity{}, err
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, ErrInvalidToken
	}

	identity := Identity{Username: sub}
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if name, ok := r.(string); ok {
				identity.Roles = append(identity.Roles, name)
			}
		}
	}
	return identity, nil
}

func (s *Service) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
