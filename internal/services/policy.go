package services

import (
	"context"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

// CanAccessProject reports whether userID may read and work inside the
// project: the owner always can, even when not listed as a member.
func CanAccessProject(userID string, p *domain.Project) bool {
	return p.Owner == userID || p.HasMember(userID)
}

// CanModifyProject reports whether userID may change project metadata or
// membership. Roles grant nothing here; only ownership does.
func CanModifyProject(userID string, p *domain.Project) bool {
	return p.Owner == userID
}

// CanManageMembers follows the same rule as CanModifyProject.
func CanManageMembers(userID string, p *domain.Project) bool {
	return CanModifyProject(userID, p)
}

// projectForAccess loads a project and enforces read access for actor.
func (s *Service) projectForAccess(ctx context.Context, actor, projectID string) (*domain.Project, error) {
	p, err := s.store.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("project not found")
	}
	if !CanAccessProject(actor, p) {
		return nil, domain.Forbidden("not authorized to access this project")
	}
	return p, nil
}

// ticketForAccess loads a ticket and enforces access through its owning
// project, resolved transitively.
func (s *Service) ticketForAccess(ctx context.Context, actor, ticketID string) (*domain.Ticket, error) {
	t, err := s.store.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("ticket not found")
	}
	if _, err := s.projectForAccess(ctx, actor, t.Project); err != nil {
		return nil, err
	}
	return t, nil
}
