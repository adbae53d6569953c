package services

import (
	"context"
	"errors"
	"testing"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "Ann@Example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ann@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "pw123456" {
		t.Fatal("password stored in the clear")
	}

	got, err := s.Login(ctx, "ann@example.com", "pw123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login returned wrong user: %s != %s", got.ID, u.ID)
	}

	if _, err := s.Login(ctx, "ann@example.com", "wrong"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("wrong password: want ErrUnauthenticated, got %v", err)
	}
	if _, err := s.Login(ctx, "nobody@example.com", "pw123456"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("unknown email: want ErrUnauthenticated, got %v", err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "Ann", "ann@example.com")
	_, err := s.Register(ctx, RegisterInput{Name: "Other", Email: "ann@example.com", Password: "pw123456"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "", Email: "a@b.c", Password: "pw"},
		{Name: "A", Email: "", Password: "pw"},
		{Name: "A", Email: "a@b.c", Password: ""},
		{Name: "A", Email: "not-an-email", Password: "pw"},
	}
	for _, in := range cases {
		if _, err := s.Register(ctx, in); !errors.Is(err, domain.ErrInvalid) {
			t.Fatalf("input %+v: want ErrInvalid, got %v", in, err)
		}
	}
}

func TestUsersByIDsSkipsUnknownAndEmpty(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	u := mustRegister(t, s, "Ann", "ann@example.com")
	got, err := s.UsersByIDs(ctx, []string{u.ID, "", "missing", u.ID})
	if err != nil {
		t.Fatalf("UsersByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 resolved user, got %d", len(got))
	}
	if got[u.ID].Email != "ann@example.com" {
		t.Fatalf("wrong user resolved: %+v", got[u.ID])
	}
}
