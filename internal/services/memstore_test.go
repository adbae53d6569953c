package services

import (
	"context"
	"strings"
	"sync"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

// memStore is an in-memory Store used by the service tests. It mirrors the
// Postgres repository's contract: absent lookups return (nil, nil), the
// ticket counter is serialized, and project deletion is transactional from
// the caller's point of view.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.User
	projects map[string]domain.Project
	tickets  map[string]domain.Ticket
	comments map[string]domain.Comment
	seqs     map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]domain.User{},
		projects: map[string]domain.Project{},
		tickets:  map[string]domain.Ticket{},
		comments: map[string]domain.Comment{},
		seqs:     map[string]int64{},
	}
}

func (m *memStore) CreateUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memStore) UserByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func copyProject(p domain.Project) domain.Project {
	p.Members = append([]domain.Member(nil), p.Members...)
	return p
}

func (m *memStore) CreateProject(_ context.Context, p domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = copyProject(p)
	return nil
}

func (m *memStore) ProjectByID(_ context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.projects[id]; ok {
		p = copyProject(p)
		return &p, nil
	}
	return nil, nil
}

func (m *memStore) ProjectsForUser(_ context.Context, userID string) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Project
	for _, p := range m.projects {
		if p.Owner == userID || p.HasMember(userID) {
			out = append(out, copyProject(p))
		}
	}
	return out, nil
}

func (m *memStore) UpdateProject(_ context.Context, p domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.projects[p.ID]
	if !ok {
		return nil
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.UpdatedAt = p.UpdatedAt
	m.projects[p.ID] = stored
	return nil
}

func (m *memStore) DeleteProjectCascade(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tid, t := range m.tickets {
		if t.Project == id {
			delete(m.tickets, tid)
		}
	}
	delete(m.seqs, id)
	delete(m.projects, id)
	return nil
}

func (m *memStore) AddMember(_ context.Context, projectID string, mem domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil
	}
	if !p.HasMember(mem.User) {
		p.Members = append(p.Members, mem)
		m.projects[projectID] = p
	}
	return nil
}

func (m *memStore) RemoveMember(_ context.Context, projectID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil
	}
	kept := make([]domain.Member, 0, len(p.Members))
	for _, mem := range p.Members {
		if mem.User != userID {
			kept = append(kept, mem)
		}
	}
	p.Members = kept
	m.projects[projectID] = p
	return nil
}

func (m *memStore) CreateTicket(_ context.Context, t domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[t.ID] = t
	return nil
}

func (m *memStore) TicketByID(_ context.Context, id string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tickets[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (m *memStore) TicketsByProject(_ context.Context, projectID string, f domain.TicketFilter) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []domain.Ticket
	for _, t := range m.tickets {
		if t.Project != projectID {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.Priority != "" && string(t.Priority) != f.Priority {
			continue
		}
		if f.Assignee == domain.AssigneeUnassigned {
			if t.Assignee != "" {
				continue
			}
		} else if f.Assignee != "" && t.Assignee != f.Assignee {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.TicketKey), search) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) UpdateTicket(_ context.Context, t domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[t.ID]; ok {
		m.tickets[t.ID] = t
	}
	return nil
}

func (m *memStore) DeleteTicket(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tickets, id)
	return nil
}

func (m *memStore) NextTicketSeq(_ context.Context, projectID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[projectID]++
	return m.seqs[projectID], nil
}

func (m *memStore) CreateComment(_ context.Context, c domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[c.ID] = c
	return nil
}

func (m *memStore) CommentByID(_ context.Context, id string) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comments[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *memStore) CommentsByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Comment
	for _, c := range m.comments {
		if c.Ticket == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateComment(_ context.Context, c domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[c.ID]; ok {
		m.comments[c.ID] = c
	}
	return nil
}

func (m *memStore) DeleteComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, id)
	return nil
}

func (m *memStore) DeleteOrphanComments(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.comments {
		if _, ok := m.tickets[c.Ticket]; !ok {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}
