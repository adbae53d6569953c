package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an account. Email is the unique handle; a duplicate fails
// with CONFLICT. The credential is hashed by the identity context and never
// stored in the clear.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.Invalid("invalid email address")
	}

	existing, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("user already exists")
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login verifies credentials and returns the account. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.creds.CheckPassword(u.PasswordHash, password) {
		return nil, domain.Unauthenticated("invalid credentials")
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.ListUsers(ctx)
}

// UsersByIDs resolves a set of user ids to their records for read-model
// assembly. Unknown ids are simply absent from the result.
func (s *Service) UsersByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := out[id]; ok {
			continue
		}
		u, err := s.store.UserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u != nil {
			out[id] = *u
		}
	}
	return out, nil
}
