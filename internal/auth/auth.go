// Package auth is the identity context: it owns credential hashing and token
// issuance. Nothing else in the tree inspects credential material.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/arju-vk/Bug-Tracker/internal/config"
	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

type Manager struct {
	secret []byte
	ttl    time.Duration
	cost   int
}

func NewManager(cfg config.Config) *Manager {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Manager{secret: []byte(cfg.JWTSecret), ttl: cfg.JWTTTL, cost: cost}
}

func (m *Manager) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *Manager) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Token mints a signed bearer token for the given user id.
func (m *Manager) Token(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken resolves a bearer token to a user id. Any failure, including
// expiry or an unexpected signing method, reports ErrUnauthenticated.
func (m *Manager) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.Unauthenticated("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.Unauthenticated("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return "", domain.Unauthenticated("invalid token subject")
	}
	return claims.Subject, nil
}
