package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

// CreateComment attaches a comment to a ticket. The ticket must exist and the
// actor must have access to its owning project. Mention notifications go out
// in the background and never affect the outcome.
func (s *Service) CreateComment(ctx context.Context, actor, ticketID, text string, mentions []string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Invalid("comment text is required")
	}

	t, err := s.store.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("ticket not found")
	}
	p, err := s.store.ProjectByID(ctx, t.Project)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("project not found")
	}
	if !CanAccessProject(actor, p) {
		return nil, domain.Forbidden("not authorized to comment on this ticket")
	}

	now := time.Now().UTC()
	c := domain.Comment{
		ID:        uuid.NewString(),
		Ticket:    t.ID,
		User:      actor,
		Text:      text,
		Mentions:  mentions,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Mentions == nil {
		c.Mentions = []string{}
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	if s.notify != nil && len(c.Mentions) > 0 {
		key := t.TicketKey
		mentioned := append([]string(nil), c.Mentions...)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notify.NotifyMentions(ctx, key, actor, mentioned); err != nil {
				s.log.Error().Err(err).Str("ticket", key).Msg("mention notify failed")
			}
		}()
	}
	return &c, nil
}

// ListComments returns a ticket's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, actor, ticketID string) ([]domain.Comment, error) {
	if _, err := s.ticketForAccess(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return s.store.CommentsByTicket(ctx, ticketID)
}

// UpdateComment edits text/mentions. Authorship is absolute: not even the
// project owner may touch someone else's comment.
func (s *Service) UpdateComment(ctx context.Context, actor, id string, text *string, mentions *[]string) (*domain.Comment, error) {
	c, err := s.store.CommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("comment not found")
	}
	if c.User != actor {
		return nil, domain.Forbidden("not authorized to update this comment")
	}

	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			return nil, domain.Invalid("comment text cannot be empty")
		}
		c.Text = trimmed
	}
	if mentions != nil {
		c.Mentions = *mentions
		if c.Mentions == nil {
			c.Mentions = []string{}
		}
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateComment(ctx, *c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment. Author only, same as UpdateComment.
func (s *Service) DeleteComment(ctx context.Context, actor, id string) error {
	c, err := s.store.CommentByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("comment not found")
	}
	if c.User != actor {
		return domain.Forbidden("not authorized to delete this comment")
	}
	return s.store.DeleteComment(ctx, id)
}

// SweepOrphanComments deletes comments whose ticket no longer exists. Ticket
// deletion leaves comments behind on purpose; this is the cleanup side.
func (s *Service) SweepOrphanComments(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteOrphanComments(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Msg("orphan comments swept")
	}
	return n, nil
}
