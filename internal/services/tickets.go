package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

type CreateTicketInput struct {
	Title       string
	Description string
	Project     string
	Status      domain.Status     // optional, defaults to To Do
	Priority    domain.Priority   // optional, defaults to Medium
	Type        domain.TicketType // optional, defaults to Bug
	Assignee    string
	Labels      []string
	DueDate     *time.Time
}

// CreateTicket creates a ticket inside a project the actor has access to and
// assigns its key exactly once. The key sequence is an atomic per-project
// counter, so concurrent creations get distinct keys and deletions never
// cause a number to be handed out twice. The assignee is recorded as given;
// it is not cross-checked against project membership.
func (s *Service) CreateTicket(ctx context.Context, actor string, in CreateTicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title is required")
	}
	if in.Project == "" {
		return nil, domain.Invalid("project is required")
	}

	p, err := s.store.ProjectByID(ctx, in.Project)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("project not found")
	}
	if !CanAccessProject(actor, p) {
		return nil, domain.Forbidden("not authorized to create tickets in this project")
	}

	status := in.Status
	if status == "" {
		status = domain.StatusToDo
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	typ := in.Type
	if typ == "" {
		typ = domain.TypeBug
	}
	if !status.Valid() {
		return nil, domain.Invalid("invalid status %q", status)
	}
	if !priority.Valid() {
		return nil, domain.Invalid("invalid priority %q", priority)
	}
	if !typ.Valid() {
		return nil, domain.Invalid("invalid type %q", typ)
	}

	seq, err := s.store.NextTicketSeq(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := domain.Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Project:     p.ID,
		TicketKey:   fmt.Sprintf("%s-%d", p.Key, seq),
		Status:      status,
		Priority:    priority,
		Type:        typ,
		Reporter:    actor,
		Assignee:    in.Assignee,
		Labels:      in.Labels,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	if err := s.store.CreateTicket(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTickets returns a project's tickets, newest first, narrowed by filter.
func (s *Service) ListTickets(ctx context.Context, actor, projectID string, f domain.TicketFilter) ([]domain.Ticket, error) {
	if _, err := s.projectForAccess(ctx, actor, projectID); err != nil {
		return nil, err
	}
	if f.Status != "" && !domain.Status(f.Status).Valid() {
		return nil, domain.Invalid("invalid status %q", f.Status)
	}
	if f.Priority != "" && !domain.Priority(f.Priority).Valid() {
		return nil, domain.Invalid("invalid priority %q", f.Priority)
	}
	return s.store.TicketsByProject(ctx, projectID, f)
}

func (s *Service) GetTicket(ctx context.Context, actor, id string) (*domain.Ticket, error) {
	return s.ticketForAccess(ctx, actor, id)
}

// TicketPatch is a partial update: nil fields keep their previous value.
// Assignee pointing at an empty string unassigns; ClearDueDate drops the due
// date. Project, reporter and ticketKey are immutable and have no patch slot.
type TicketPatch struct {
	Title        *string
	Description  *string
	Status       *domain.Status
	Priority     *domain.Priority
	Type         *domain.TicketType
	Assignee     *string
	Labels       *[]string
	DueDate      *time.Time
	ClearDueDate bool
}

// UpdateTicket applies a partial update after re-checking project access.
// Validation happens before anything is written, so a bad field leaves the
// ticket untouched.
func (s *Service) UpdateTicket(ctx context.Context, actor, id string, patch TicketPatch) (*domain.Ticket, error) {
	t, err := s.ticketForAccess(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.Invalid("title cannot be empty")
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, domain.Invalid("invalid status %q", *patch.Status)
		}
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, domain.Invalid("invalid priority %q", *patch.Priority)
		}
		t.Priority = *patch.Priority
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, domain.Invalid("invalid type %q", *patch.Type)
		}
		t.Type = *patch.Type
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.Labels != nil {
		t.Labels = *patch.Labels
		if t.Labels == nil {
			t.Labels = []string{}
		}
	}
	if patch.ClearDueDate {
		t.DueDate = nil
	} else if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}

	t.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTicket(ctx, *t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTicketStatus is the narrow board-drag operation: it moves the ticket
// and touches nothing else.
func (s *Service) UpdateTicketStatus(ctx context.Context, actor, id string, status domain.Status) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, domain.Invalid("invalid status %q", status)
	}
	t, err := s.ticketForAccess(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTicket(ctx, *t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTicket removes a ticket. Comments referencing it are left behind for
// the orphan sweeper rather than cascaded here.
func (s *Service) DeleteTicket(ctx context.Context, actor, id string) error {
	t, err := s.ticketForAccess(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.store.DeleteTicket(ctx, t.ID)
}
