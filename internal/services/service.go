// Package services holds the core rules of the tracker: who may touch which
// project, ticket, or comment, how ticket keys are assigned, and how ticket
// state changes are applied. Transport and persistence stay outside.
package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

// Store is the persistence contract the core operates against. Lookups by id
// or email return (nil, nil) when the record is absent; the core turns that
// into a NOT_FOUND of its own wording.
type Store interface {
	CreateUser(ctx context.Context, u domain.User) error
	UserByID(ctx context.Context, id string) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	CreateProject(ctx context.Context, p domain.Project) error
	ProjectByID(ctx context.Context, id string) (*domain.Project, error)
	ProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) error
	// DeleteProjectCascade removes the project's tickets and then the project
	// itself as one unit. Running it against an absent project is a no-op.
	DeleteProjectCascade(ctx context.Context, id string) error
	AddMember(ctx context.Context, projectID string, m domain.Member) error
	RemoveMember(ctx context.Context, projectID, userID string) error

	CreateTicket(ctx context.Context, t domain.Ticket) error
	TicketByID(ctx context.Context, id string) (*domain.Ticket, error)
	TicketsByProject(ctx context.Context, projectID string, f domain.TicketFilter) ([]domain.Ticket, error)
	UpdateTicket(ctx context.Context, t domain.Ticket) error
	DeleteTicket(ctx context.Context, id string) error
	// NextTicketSeq atomically increments and returns the per-project ticket
	// counter. Serialized by the store so concurrent creations in one project
	// never observe the same value.
	NextTicketSeq(ctx context.Context, projectID string) (int64, error)

	CreateComment(ctx context.Context, c domain.Comment) error
	CommentByID(ctx context.Context, id string) (*domain.Comment, error)
	CommentsByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	UpdateComment(ctx context.Context, c domain.Comment) error
	DeleteComment(ctx context.Context, id string) error
	DeleteOrphanComments(ctx context.Context) (int64, error)
}

// CredentialHasher is the slice of the identity context the core needs for
// account registration and login. Token issuance stays at the transport edge.
type CredentialHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
}

// MentionNotifier delivers mention notifications for freshly created
// comments. Best-effort: failures are logged, never surfaced to the caller.
type MentionNotifier interface {
	NotifyMentions(ctx context.Context, ticketKey, author string, mentions []string) error
}

type Service struct {
	log    zerolog.Logger
	store  Store
	creds  CredentialHasher
	notify MentionNotifier
}

func New(log zerolog.Logger, store Store, creds CredentialHasher, notify MentionNotifier) *Service {
	return &Service{log: log, store: store, creds: creds, notify: notify}
}
