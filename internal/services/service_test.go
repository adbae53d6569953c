package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

type fakeCreds struct{}

func (fakeCreds) HashPassword(password string) (string, error) { return "hash:" + password, nil }
func (fakeCreds) CheckPassword(hash, password string) bool     { return hash == "hash:"+password }

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	return New(zerolog.Nop(), store, fakeCreds{}, nil), store
}

func mustRegister(t *testing.T, s *Service, name, email string) *domain.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret123"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func mustProject(t *testing.T, s *Service, owner, name, key string) *domain.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), owner, CreateProjectInput{Name: name, Key: key})
	if err != nil {
		t.Fatalf("create project %s: %v", key, err)
	}
	return p
}

func mustTicket(t *testing.T, s *Service, actor, projectID, title string) *domain.Ticket {
	t.Helper()
	tk, err := s.CreateTicket(context.Background(), actor, CreateTicketInput{Title: title, Project: projectID})
	if err != nil {
		t.Fatalf("create ticket %q: %v", title, err)
	}
	return tk
}
