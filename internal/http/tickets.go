package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
	"github.com/arju-vk/Bug-Tracker/internal/services"
)

func (h *Handlers) CreateTicket(c *gin.Context) {
	var req struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Project     string            `json:"project"`
		Status      domain.Status     `json:"status"`
		Priority    domain.Priority   `json:"priority"`
		Type        domain.TicketType `json:"type"`
		Assignee    string            `json:"assignee"`
		Labels      []string          `json:"labels"`
		DueDate     *time.Time        `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	t, err := h.svc.CreateTicket(c.Request.Context(), actorID(c), services.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Project:     req.Project,
		Status:      req.Status,
		Priority:    req.Priority,
		Type:        req.Type,
		Assignee:    req.Assignee,
		Labels:      req.Labels,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderTicket(c, http.StatusCreated, t)
}

func (h *Handlers) ListTickets(c *gin.Context) {
	f := domain.TicketFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Assignee: c.Query("assignee"),
		Search:   c.Query("search"),
	}
	tickets, err := h.svc.ListTickets(c.Request.Context(), actorID(c), c.Param("projectId"), f)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	views, err := h.ticketViews(c.Request.Context(), tickets...)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handlers) GetTicket(c *gin.Context) {
	t, err := h.svc.GetTicket(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderTicket(c, http.StatusOK, t)
}

func (h *Handlers) UpdateTicket(c *gin.Context) {
	var req struct {
		Title        *string            `json:"title"`
		Description  *string            `json:"description"`
		Status       *domain.Status     `json:"status"`
		Priority     *domain.Priority   `json:"priority"`
		Type         *domain.TicketType `json:"type"`
		Assignee     *string            `json:"assignee"`
		Labels       *[]string          `json:"labels"`
		DueDate      *time.Time         `json:"dueDate"`
		ClearDueDate bool               `json:"clearDueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	t, err := h.svc.UpdateTicket(c.Request.Context(), actorID(c), c.Param("id"), services.TicketPatch{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		Type:         req.Type,
		Assignee:     req.Assignee,
		Labels:       req.Labels,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderTicket(c, http.StatusOK, t)
}

func (h *Handlers) UpdateTicketStatus(c *gin.Context) {
	var req struct {
		Status domain.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	t, err := h.svc.UpdateTicketStatus(c.Request.Context(), actorID(c), c.Param("id"), req.Status)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderTicket(c, http.StatusOK, t)
}

func (h *Handlers) DeleteTicket(c *gin.Context) {
	if err := h.svc.DeleteTicket(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ticket removed"})
}

func (h *Handlers) renderTicket(c *gin.Context, code int, t *domain.Ticket) {
	views, err := h.ticketViews(c.Request.Context(), *t)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(code, views[0])
}
