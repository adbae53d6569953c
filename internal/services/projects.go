package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

type CreateProjectInput struct {
	Name        string
	Description string
	Key         string
}

// CreateProject makes actor the owner and seeds the membership list with an
// admin entry for them.
func (s *Service) CreateProject(ctx context.Context, actor string, in CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	key := domain.NormalizeKey(in.Key)
	if name == "" || key == "" {
		return nil, domain.Invalid("name and key are required")
	}

	now := time.Now().UTC()
	p := domain.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Key:         key,
		Owner:       actor,
		Members:     []domain.Member{{User: actor, Role: domain.RoleAdmin}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns the projects actor owns or is a member of.
func (s *Service) ListProjects(ctx context.Context, actor string) ([]domain.Project, error) {
	return s.store.ProjectsForUser(ctx, actor)
}

// GetProject fetches a project by id. Reads are open to any authenticated
// user; mutation is what ownership gates.
func (s *Service) GetProject(ctx context.Context, actor, id string) (*domain.Project, error) {
	p, err := s.store.ProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("project not found")
	}
	return p, nil
}

type ProjectPatch struct {
	Name        *string
	Description *string
}

// UpdateProject edits name/description. Owner only; the key is immutable.
func (s *Service) UpdateProject(ctx context.Context, actor, id string, patch ProjectPatch) (*domain.Project, error) {
	p, err := s.store.ProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("project not found")
	}
	if !CanModifyProject(actor, p) {
		return nil, domain.Forbidden("not authorized to update this project")
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Invalid("project name cannot be empty")
		}
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateProject(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes the project and every ticket it owns as one unit.
// Owner only. Re-running deletion is idempotent: an absent project means a
// previous run already finished, so there is nothing left to do.
func (s *Service) DeleteProject(ctx context.Context, actor, id string) error {
	p, err := s.store.ProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if !CanModifyProject(actor, p) {
		return domain.Forbidden("not authorized to delete this project")
	}
	return s.store.DeleteProjectCascade(ctx, id)
}

// AddMember appends a membership entry. Owner only; a user already present
// fails with CONFLICT. Role defaults to member.
func (s *Service) AddMember(ctx context.Context, actor, projectID, userID string, role domain.Role) (*domain.Project, error) {
	p, err := s.store.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("project not found")
	}
	if !CanManageMembers(actor, p) {
		return nil, domain.Forbidden("not authorized to add members")
	}
	if userID == "" {
		return nil, domain.Invalid("userId is required")
	}
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, domain.Invalid("invalid role %q", role)
	}
	if p.HasMember(userID) {
		return nil, domain.Conflict("member already in project")
	}

	m := domain.Member{User: userID, Role: role}
	if err := s.store.AddMember(ctx, projectID, m); err != nil {
		return nil, err
	}
	p.Members = append(p.Members, m)
	return p, nil
}

// RemoveMember drops any entry for userID. Owner only; removing an absent
// member is not an error.
func (s *Service) RemoveMember(ctx context.Context, actor, projectID, userID string) (*domain.Project, error) {
	p, err := s.store.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("project not found")
	}
	if !CanManageMembers(actor, p) {
		return nil, domain.Forbidden("not authorized to remove members")
	}
	if err := s.store.RemoveMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	kept := p.Members[:0]
	for _, m := range p.Members {
		if m.User != userID {
			kept = append(kept, m)
		}
	}
	p.Members = kept
	return p, nil
}
