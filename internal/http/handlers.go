package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/arju-vk/Bug-Tracker/internal/auth"
	"github.com/arju-vk/Bug-Tracker/internal/config"
	"github.com/arju-vk/Bug-Tracker/internal/domain"
	"github.com/arju-vk/Bug-Tracker/internal/services"
)

type service interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UsersByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)

	CreateProject(ctx context.Context, actor string, in services.CreateProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context, actor string) ([]domain.Project, error)
	GetProject(ctx context.Context, actor, id string) (*domain.Project, error)
	UpdateProject(ctx context.Context, actor, id string, patch services.ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, actor, id string) error
	AddMember(ctx context.Context, actor, projectID, userID string, role domain.Role) (*domain.Project, error)
	RemoveMember(ctx context.Context, actor, projectID, userID string) (*domain.Project, error)

	CreateTicket(ctx context.Context, actor string, in services.CreateTicketInput) (*domain.Ticket, error)
	ListTickets(ctx context.Context, actor, projectID string, f domain.TicketFilter) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, actor, id string) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, actor, id string, patch services.TicketPatch) (*domain.Ticket, error)
	UpdateTicketStatus(ctx context.Context, actor, id string, status domain.Status) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, actor, id string) error

	CreateComment(ctx context.Context, actor, ticketID, text string, mentions []string) (*domain.Comment, error)
	ListComments(ctx context.Context, actor, ticketID string) ([]domain.Comment, error)
	UpdateComment(ctx context.Context, actor, id string, text *string, mentions *[]string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor, id string) error
}

type Handlers struct {
	cfg    config.Config
	log    zerolog.Logger
	svc    service
	tokens *auth.Manager
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service, tokens *auth.Manager) *Handlers {
	return &Handlers{cfg: cfg, log: log, svc: svc, tokens: tokens}
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---- accounts ----

func (h *Handlers) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), services.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	token, err := h.tokens.Token(u.ID)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, authView(u, token))
}

func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	u, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	token, err := h.tokens.Token(u.ID)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, authView(u, token))
}

func (h *Handlers) Me(c *gin.Context) {
	u, err := h.svc.GetUser(c.Request.Context(), actorID(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summarize(*u))
}

func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u))
	}
	c.JSON(http.StatusOK, out)
}
