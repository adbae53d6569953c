package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

func (h *Handlers) CreateComment(c *gin.Context) {
	var req struct {
		TicketID string   `json:"ticketId"`
		Text     string   `json:"text"`
		Mentions []string `json:"mentions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	cm, err := h.svc.CreateComment(c.Request.Context(), actorID(c), req.TicketID, req.Text, req.Mentions)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderComment(c, http.StatusCreated, cm)
}

func (h *Handlers) ListComments(c *gin.Context) {
	comments, err := h.svc.ListComments(c.Request.Context(), actorID(c), c.Param("ticketId"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	views, err := h.commentViews(c.Request.Context(), comments...)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handlers) UpdateComment(c *gin.Context) {
	var req struct {
		Text     *string   `json:"text"`
		Mentions *[]string `json:"mentions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	cm, err := h.svc.UpdateComment(c.Request.Context(), actorID(c), c.Param("id"), req.Text, req.Mentions)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderComment(c, http.StatusOK, cm)
}

func (h *Handlers) DeleteComment(c *gin.Context) {
	if err := h.svc.DeleteComment(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment removed"})
}

func (h *Handlers) renderComment(c *gin.Context, code int, cm *domain.Comment) {
	views, err := h.commentViews(c.Request.Context(), *cm)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(code, views[0])
}
