package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

func TestTicketKeySequence(t *testing.T) {
	s, _ := newTestService(t)

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")

	first := mustTicket(t, s, owner.ID, p.ID, "first")
	second := mustTicket(t, s, owner.ID, p.ID, "second")
	if first.TicketKey != "ABC-1" {
		t.Fatalf("first key: want ABC-1, got %q", first.TicketKey)
	}
	if second.TicketKey != "ABC-2" {
		t.Fatalf("second key: want ABC-2, got %q", second.TicketKey)
	}
}

func TestTicketKeysSurviveDeletion(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")

	first := mustTicket(t, s, owner.ID, p.ID, "first")
	if err := s.DeleteTicket(ctx, owner.ID, first.ID); err != nil {
		t.Fatalf("delete ticket: %v", err)
	}
	// The counter keeps advancing: deleted numbers are never reissued.
	next := mustTicket(t, s, owner.ID, p.ID, "next")
	if next.TicketKey != "ABC-2" {
		t.Fatalf("key after deletion: want ABC-2, got %q", next.TicketKey)
	}
}

func TestTicketKeysUniqueUnderConcurrentCreation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")

	const n = 25
	keys := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tk, err := s.CreateTicket(ctx, owner.ID, CreateTicketInput{
				Title: fmt.Sprintf("t%d", i), Project: p.ID,
			})
			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			keys <- tk.TicketKey
		}(i)
	}
	wg.Wait()
	close(keys)

	seen := map[string]bool{}
	for k := range keys {
		if seen[k] {
			t.Fatalf("duplicate ticket key %q", k)
		}
		seen[k] = true
	}
	if len(seen) != n {
		t.Fatalf("want %d distinct keys, got %d", n, len(seen))
	}
}

func TestTicketDefaults(t *testing.T) {
	s, _ := newTestService(t)

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")
	tk := mustTicket(t, s, owner.ID, p.ID, "defaults")

	if tk.Status != domain.StatusToDo {
		t.Fatalf("status default: want To Do, got %q", tk.Status)
	}
	if tk.Priority != domain.PriorityMedium {
		t.Fatalf("priority default: want Medium, got %q", tk.Priority)
	}
	if tk.Type != domain.TypeBug {
		t.Fatalf("type default: want Bug, got %q", tk.Type)
	}
	if tk.Reporter != owner.ID {
		t.Fatalf("reporter: want actor, got %q", tk.Reporter)
	}
	if tk.Labels == nil {
		t.Fatal("labels must be an empty set, not nil")
	}
}

func TestCreateTicketRejectsInvalidEnums(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")

	cases := []CreateTicketInput{
		{Title: "x", Project: p.ID, Status: "Archived"},
		{Title: "x", Project: p.ID, Priority: "Urgent"},
		{Title: "x", Project: p.ID, Type: "Chore"},
	}
	for _, in := range cases {
		if _, err := s.CreateTicket(ctx, owner.ID, in); !errors.Is(err, domain.ErrInvalid) {
			t.Fatalf("input %+v: want ErrInvalid, got %v", in, err)
		}
	}

	if _, err := s.CreateTicket(ctx, owner.ID, CreateTicketInput{Title: "", Project: p.ID}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("missing title: want ErrInvalid, got %v", err)
	}
	if _, err := s.CreateTicket(ctx, owner.ID, CreateTicketInput{Title: "x", Project: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing project: want ErrNotFound, got %v", err)
	}
}

func TestStatusOnlyUpdateTouchesNothingElse(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tk, err := s.CreateTicket(ctx, owner.ID, CreateTicketInput{
		Title:       "T",
		Description: "desc",
		Project:     p.ID,
		Priority:    domain.PriorityHigh,
		Type:        domain.TypeFeature,
		Assignee:    owner.ID,
		Labels:      []string{"a", "b"},
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	got, err := s.UpdateTicketStatus(ctx, owner.ID, tk.ID, domain.StatusDone)
	if err != nil {
		t.Fatalf("status update: %v", err)
	}
	if got.Status != domain.StatusDone {
		t.Fatalf("status: want Done, got %q", got.Status)
	}
	if got.Title != "T" || got.Description != "desc" || got.Priority != domain.PriorityHigh ||
		got.Type != domain.TypeFeature || got.Assignee != owner.ID || len(got.Labels) != 2 ||
		got.DueDate == nil || !got.DueDate.Equal(due) || got.TicketKey != tk.TicketKey {
		t.Fatalf("status-only update altered other fields: %+v", got)
	}

	if _, err := s.UpdateTicketStatus(ctx, owner.ID, tk.ID, "Archived"); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("invalid status: want ErrInvalid, got %v", err)
	}
	// Backward moves are legal: no transition graph is enforced.
	if _, err := s.UpdateTicketStatus(ctx, owner.ID, tk.ID, domain.StatusToDo); err != nil {
		t.Fatalf("backward move Done -> To Do: %v", err)
	}
}

func TestUpdateTicketPartialSemantics(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")
	tk := mustTicket(t, s, owner.ID, p.ID, "original")

	title := "renamed"
	got, err := s.UpdateTicket(ctx, owner.ID, tk.ID, TicketPatch{Title: &title})
	if err != nil {
		t.Fatalf("patch title: %v", err)
	}
	if got.Title != "renamed" || got.Status != domain.StatusToDo || got.Priority != domain.PriorityMedium {
		t.Fatalf("omitted fields must keep their values: %+v", got)
	}

	// Unassign via pointer-to-empty.
	assignee := owner.ID
	if _, err := s.UpdateTicket(ctx, owner.ID, tk.ID, TicketPatch{Assignee: &assignee}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	empty := ""
	got, err = s.UpdateTicket(ctx, owner.ID, tk.ID, TicketPatch{Assignee: &empty})
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if got.Assignee != "" {
		t.Fatalf("assignee not cleared: %q", got.Assignee)
	}

	// A bad enum rejects the whole patch; nothing is written.
	bad := domain.Status("Archived")
	newTitle := "should not land"
	if _, err := s.UpdateTicket(ctx, owner.ID, tk.ID, TicketPatch{Title: &newTitle, Status: &bad}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("invalid status in patch: want ErrInvalid, got %v", err)
	}
	stored, _ := store.TicketByID(ctx, tk.ID)
	if stored.Title != "renamed" {
		t.Fatalf("failed patch partially applied: title %q", stored.Title)
	}

	// Immutables: key, reporter, project are untouched by any patch.
	if stored.TicketKey != tk.TicketKey || stored.Reporter != tk.Reporter || stored.Project != tk.Project {
		t.Fatalf("immutable field changed: %+v", stored)
	}
}

func TestListTicketFilters(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	owner := mustRegister(t, s, "Owner", "owner@example.com")
	dev := mustRegister(t, s, "Dev", "dev@example.com")
	p := mustProject(t, s, owner.ID, "Apollo", "ABC")

	mk := func(title string, st domain.Status, pr domain.Priority, assignee string) {
		t.Helper()
		if _, err := s.CreateTicket(ctx, owner.ID, CreateTicketInput{
			Title: title, Project: p.ID, Status: st, Priority: pr, Assignee: assignee,
		}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}
	mk("Login crashes", domain.StatusToDo, domain.PriorityCritical, dev.ID)
	mk("Search is slow", domain.StatusInProgress, domain.PriorityHigh, "")
	mk("Polish footer", domain.StatusDone, domain.PriorityLow, dev.ID)

	titles := func(f domain.TicketFilter) map[string]bool {
		t.Helper()
		out, err := s.ListTickets(ctx, owner.ID, p.ID, f)
		if err != nil {
			t.Fatalf("list %+v: %v", f, err)
		}
		got := map[string]bool{}
		for _, tk := range out {
			got[tk.Title] = true
		}
		return got
	}

	if got := titles(domain.TicketFilter{Status: string(domain.StatusDone)}); len(got) != 1 || !got["Polish footer"] {
		t.Fatalf("status filter: %v", got)
	}
	if got := titles(domain.TicketFilter{Priority: string(domain.PriorityCritical)}); len(got) != 1 || !got["Login crashes"] {
		t.Fatalf("priority filter: %v", got)
	}
	if got := titles(domain.TicketFilter{Assignee: dev.ID}); len(got) != 2 {
		t.Fatalf("assignee filter: %v", got)
	}
	if got := titles(domain.TicketFilter{Assignee: domain.AssigneeUnassigned}); len(got) != 1 || !got["Search is slow"] {
		t.Fatalf("unassigned sentinel: %v", got)
	}
	if got := titles(domain.TicketFilter{Search: "SEARCH"}); len(got) != 1 || !got["Search is slow"] {
		t.Fatalf("case-insensitive search: %v", got)
	}
	if got := titles(domain.TicketFilter{Search: "abc-"}); len(got) != 3 {
		t.Fatalf("search must cover ticket keys: %v", got)
	}

	if _, err := s.ListTickets(ctx, owner.ID, p.ID, domain.TicketFilter{Status: "Bogus"}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("bogus status filter: want ErrInvalid, got %v", err)
	}
}
