package domain

import (
	"strings"
	"time"
)

// Status is the kanban workflow position of a ticket. Any status is reachable
// from any other; there is no enforced transition graph.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

func Statuses() []Status { return []Status{StatusToDo, StatusInProgress, StatusDone} }

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type TicketType string

const (
	TypeBug         TicketType = "Bug"
	TypeFeature     TicketType = "Feature"
	TypeTask        TicketType = "Task"
	TypeImprovement TicketType = "Improvement"
)

func TicketTypes() []TicketType {
	return []TicketType{TypeBug, TypeFeature, TypeTask, TypeImprovement}
}

func (t TicketType) Valid() bool {
	switch t {
	case TypeBug, TypeFeature, TypeTask, TypeImprovement:
		return true
	}
	return false
}

// Role classifies a project member. Advisory for now: only ownership grants
// write access to project metadata and membership.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Member struct {
	User string `json:"user"`
	Role Role   `json:"role"`
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Key         string    `json:"key"`
	Owner       string    `json:"owner"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasMember reports whether userID appears in the membership list. The owner
// has full access regardless and need not be listed.
func (p *Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

// NormalizeKey uppercases and trims a project key the way keys are stored.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

type Ticket struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Project     string     `json:"project"`
	TicketKey   string     `json:"ticketKey"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Type        TicketType `json:"type"`
	Reporter    string     `json:"reporter"`
	Assignee    string     `json:"assignee,omitempty"` // empty = unassigned
	Labels      []string   `json:"labels"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	Ticket    string    `json:"ticket"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Mentions  []string  `json:"mentions"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AssigneeUnassigned is the listing-filter sentinel meaning "no assignee".
const AssigneeUnassigned = "null"

// TicketFilter narrows a per-project ticket listing. Zero values mean no
// constraint; Assignee accepts AssigneeUnassigned as a sentinel.
type TicketFilter struct {
	Status   string
	Priority string
	Assignee string
	Search   string // case-insensitive substring over title/description/ticketKey
}
