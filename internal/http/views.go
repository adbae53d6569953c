package http

import (
	"context"
	"time"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

// Read models. Foreign keys are expanded into summaries here, after the core
// returns raw entities, so the core never deals in presentation shapes and
// credential material cannot leak.

type userSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

func summarize(u domain.User) userSummary {
	return userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

type authUserView struct {
	userSummary
	Token string `json:"token"`
}

func authView(u *domain.User, token string) authUserView {
	return authUserView{userSummary: summarize(*u), Token: token}
}

type projectSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

type memberView struct {
	User *userSummary `json:"user"`
	Role domain.Role  `json:"role"`
}

type projectView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Key         string       `json:"key"`
	Owner       *userSummary `json:"owner"`
	Members     []memberView `json:"members"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type ticketView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Project     *projectSummary   `json:"project"`
	TicketKey   string            `json:"ticketKey"`
	Status      domain.Status     `json:"status"`
	Priority    domain.Priority   `json:"priority"`
	Type        domain.TicketType `json:"type"`
	Reporter    *userSummary      `json:"reporter"`
	Assignee    *userSummary      `json:"assignee"`
	Labels      []string          `json:"labels"`
	DueDate     *time.Time        `json:"dueDate,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type commentView struct {
	ID        string        `json:"id"`
	Ticket    string        `json:"ticket"`
	User      *userSummary  `json:"user"`
	Text      string        `json:"text"`
	Mentions  []userSummary `json:"mentions"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func lookup(users map[string]domain.User, id string) *userSummary {
	if id == "" {
		return nil
	}
	u, ok := users[id]
	if !ok {
		return &userSummary{ID: id}
	}
	s := summarize(u)
	return &s
}

func (h *Handlers) projectViews(ctx context.Context, projects ...domain.Project) ([]projectView, error) {
	var ids []string
	for _, p := range projects {
		ids = append(ids, p.Owner)
		for _, m := range p.Members {
			ids = append(ids, m.User)
		}
	}
	users, err := h.svc.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		v := projectView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Key:         p.Key,
			Owner:       lookup(users, p.Owner),
			Members:     make([]memberView, 0, len(p.Members)),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		for _, m := range p.Members {
			v.Members = append(v.Members, memberView{User: lookup(users, m.User), Role: m.Role})
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *Handlers) ticketViews(ctx context.Context, tickets ...domain.Ticket) ([]ticketView, error) {
	var ids []string
	projects := map[string]*projectSummary{}
	for _, t := range tickets {
		ids = append(ids, t.Reporter)
		if t.Assignee != "" {
			ids = append(ids, t.Assignee)
		}
		projects[t.Project] = nil
	}
	users, err := h.svc.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id := range projects {
		p, err := h.svc.GetProject(ctx, "", id)
		if err != nil {
			// project may be mid-deletion; keep the bare id
			projects[id] = &projectSummary{ID: id}
			continue
		}
		projects[id] = &projectSummary{ID: p.ID, Name: p.Name, Key: p.Key}
	}
	out := make([]ticketView, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Project:     projects[t.Project],
			TicketKey:   t.TicketKey,
			Status:      t.Status,
			Priority:    t.Priority,
			Type:        t.Type,
			Reporter:    lookup(users, t.Reporter),
			Assignee:    lookup(users, t.Assignee),
			Labels:      t.Labels,
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return out, nil
}

func (h *Handlers) commentViews(ctx context.Context, comments ...domain.Comment) ([]commentView, error) {
	var ids []string
	for _, c := range comments {
		ids = append(ids, c.User)
		ids = append(ids, c.Mentions...)
	}
	users, err := h.svc.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]commentView, 0, len(comments))
	for _, c := range comments {
		v := commentView{
			ID:        c.ID,
			Ticket:    c.Ticket,
			User:      lookup(users, c.User),
			Text:      c.Text,
			Mentions:  make([]userSummary, 0, len(c.Mentions)),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
		for _, id := range c.Mentions {
			if s := lookup(users, id); s != nil {
				v.Mentions = append(v.Mentions, *s)
			}
		}
		out = append(out, v)
	}
	return out, nil
}
